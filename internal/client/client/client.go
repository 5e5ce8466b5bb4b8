package client

import (
	"context"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// Client is the account backend contract. Calls that need a session take
// the bearer token explicitly.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) error
	VerifyAccount(ctx context.Context, req models.VerifyRequest) error
	ResendVerification(ctx context.Context, phone string) error
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	ForgotPassword(ctx context.Context, phone string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error

	Me(ctx context.Context, token string) (*models.Account, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, token string, userID int64, upd models.ProfileUpdate) error

	ListRoles(ctx context.Context, token string) ([]models.Role, error)
	CreateRole(ctx context.Context, token string, in models.RoleInput) (*models.Role, error)
	UpdateRole(ctx context.Context, token string, roleID int64, in models.RoleInput) (*models.Role, error)
	AssignRoles(ctx context.Context, token string, userID int64, roleIDs []int64) error
	RemoveRoles(ctx context.Context, token string, userID int64, roleIDs []int64) error
}
