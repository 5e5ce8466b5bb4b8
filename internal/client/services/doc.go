// Package services contains the application services of the GophAccount
// client.
//
// AccountLifecycle is the state machine that takes an account from
// registration through phone verification to an authenticated session and
// back, including password change and reset. It owns the Session; the
// credential store only ever sees the bearer token.
//
// DirectoryService is the role administration surface. It runs every call
// through the lifecycle's authorization gate.
//
// Errors are sentinels (ErrInvalidCode, ErrInvalidCredentials, ...) or
// typed values (*CooldownError, *common.ValidationError) and are matched
// with errors.Is / errors.As. Transport errors from package client pass
// through unchanged.
package services
