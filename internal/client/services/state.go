package services

// State is a node of the account lifecycle.
type State int

const (
	StateAnonymous State = iota
	StateRegistering
	StateAwaitingVerification
	StateVerified
	StateAuthenticating
	StateAuthenticated
	StateResettingPassword
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateRegistering:
		return "registering"
	case StateAwaitingVerification:
		return "awaiting-verification"
	case StateVerified:
		return "verified"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateResettingPassword:
		return "resetting-password"
	default:
		return "unknown"
	}
}

// ResetStep is the position inside the password reset flow.
type ResetStep int

const (
	ResetNone ResetStep = iota
	// ResetRequestCode: the phone number is known, no code issued yet.
	ResetRequestCode
	// ResetEnterCode: a code was sent and can be submitted with a new password.
	ResetEnterCode
)

// Flow identifies one user-initiated flow. A result that arrives after a
// newer flow began, or after logout, should not drive navigation.
type Flow uint64

type opKind int

const (
	opRegister opKind = iota
	opVerify
	opResend
	opLogin
	opRestore
	opLogout
	opChangePassword
	opRequestReset
	opResetPassword
	opProfile
)
