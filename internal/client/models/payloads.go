package models

// RegisterRequest is the body of POST /users/.
type RegisterRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      Gender `json:"gender"`
	BirthDate   *Date  `json:"birth_date,omitempty"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty"`
}

// PhoneRequest is the body of resend-verification and forgot-password.
type PhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// VerifyRequest is the body of POST /users/verify-account.
type VerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// TokenResponse is returned by POST /users/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ResetPasswordRequest is the body of POST /users/reset-password.
type ResetPasswordRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest is the body of POST /users/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ProfileUpdate is the body of PUT /users/{user_id}. Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	Gender    *Gender `json:"gender,omitempty"`
	BirthDate *Date   `json:"birth_date,omitempty"`
}

// RoleInput is the body of role create/update calls.
type RoleInput struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"is_active,omitempty"`
}

// RoleAssignment is the body of POST/DELETE /users/{user_id}/roles.
type RoleAssignment struct {
	RoleIDs []int64 `json:"role_ids"`
}
