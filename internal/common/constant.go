// Package common contains shared constants and sentinel errors used across
// GophAccount components.
package common

// Header names attached by the API gateway to outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerScheme            = "Bearer"
)

// DateLayout is the wire format of calendar dates (birth dates).
const DateLayout = "2006-01-02"
