package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// ---- fake clock ----

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// ---- fake client ----

// fakeClient implements client.Client. Every call is counted by name; the
// Err fields set the outcome.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	RegisterErr  error
	LastRegister models.RegisterRequest

	VerifyErr  error
	LastVerify models.VerifyRequest
	// VerifyGate, when set, blocks VerifyAccount until it is closed.
	VerifyGate chan struct{}
	verifyHit  chan struct{}

	ResendErr   error
	ResendPhone string

	LoginToken string
	LoginErr   error

	ForgotErr error
	ResetErr  error
	LastReset models.ResetPasswordRequest

	MeAccount *models.Account
	MeErr     error
	MeTokens  []string

	LogoutErr   error
	LogoutToken string

	ChangeErr  error
	LastChange models.ChangePasswordRequest

	UpdateErr  error
	LastUpdate models.ProfileUpdate
	LastUserID int64

	Roles       []models.Role
	RolesErr    error
	RoleResult  *models.Role
	RoleErr     error
	AssignErr   error
	LastRoleIDs []int64
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		calls:      make(map[string]int),
		LoginToken: "tok-1",
		MeAccount:  verifiedAccount(7, "user"),
		verifyHit:  make(chan struct{}, 1),
	}
}

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) error {
	f.hit("Register")
	f.LastRegister = req
	return f.RegisterErr
}

func (f *fakeClient) VerifyAccount(ctx context.Context, req models.VerifyRequest) error {
	f.hit("VerifyAccount")
	f.LastVerify = req
	if f.VerifyGate != nil {
		f.verifyHit <- struct{}{}
		<-f.VerifyGate
	}
	return f.VerifyErr
}

func (f *fakeClient) ResendVerification(ctx context.Context, phone string) error {
	f.hit("ResendVerification")
	f.ResendPhone = phone
	return f.ResendErr
}

func (f *fakeClient) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	f.hit("Login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	return f.LoginToken, nil
}

func (f *fakeClient) ForgotPassword(ctx context.Context, phone string) error {
	f.hit("ForgotPassword")
	return f.ForgotErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	f.hit("ResetPassword")
	f.LastReset = req
	return f.ResetErr
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.Account, error) {
	f.hit("Me")
	f.MeTokens = append(f.MeTokens, token)
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	acc := f.MeAccount.Clone()
	return &acc, nil
}

func (f *fakeClient) Logout(ctx context.Context, token string) error {
	f.hit("Logout")
	f.LogoutToken = token
	return f.LogoutErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) error {
	f.hit("ChangePassword")
	f.LastChange = req
	return f.ChangeErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, token string, userID int64, upd models.ProfileUpdate) error {
	f.hit("UpdateProfile")
	f.LastUserID = userID
	f.LastUpdate = upd
	return f.UpdateErr
}

func (f *fakeClient) ListRoles(ctx context.Context, token string) ([]models.Role, error) {
	f.hit("ListRoles")
	return f.Roles, f.RolesErr
}

func (f *fakeClient) CreateRole(ctx context.Context, token string, in models.RoleInput) (*models.Role, error) {
	f.hit("CreateRole")
	return f.RoleResult, f.RoleErr
}

func (f *fakeClient) UpdateRole(ctx context.Context, token string, roleID int64, in models.RoleInput) (*models.Role, error) {
	f.hit("UpdateRole")
	return f.RoleResult, f.RoleErr
}

func (f *fakeClient) AssignRoles(ctx context.Context, token string, userID int64, roleIDs []int64) error {
	f.hit("AssignRoles")
	f.LastUserID = userID
	f.LastRoleIDs = roleIDs
	return f.AssignErr
}

func (f *fakeClient) RemoveRoles(ctx context.Context, token string, userID int64, roleIDs []int64) error {
	f.hit("RemoveRoles")
	f.LastUserID = userID
	f.LastRoleIDs = roleIDs
	return f.AssignErr
}

// ---- fake store ----

type fakeStore struct {
	token    string
	SetErr   error
	ClearErr error
	GetErr   error
	sets     int
	clears   int
}

func (s *fakeStore) Get(ctx context.Context) (string, error) {
	return s.token, s.GetErr
}

func (s *fakeStore) Set(ctx context.Context, token string) error {
	s.sets++
	if s.SetErr != nil {
		return s.SetErr
	}
	s.token = token
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.clears++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.token = ""
	return nil
}

// ---- fixtures ----

var errBoom = errors.New("boom")

func verifiedAccount(id int64, roles ...string) *models.Account {
	acc := &models.Account{
		ID:          id,
		FullName:    "Ann Lee",
		PhoneNumber: "+15551234567",
		Gender:      models.GenderFemale,
		Verified:    true,
	}
	for i, r := range roles {
		acc.Roles = append(acc.Roles, models.Role{ID: int64(i + 1), Name: r, Active: true})
	}
	return acc
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		FullName:    "Ann Lee",
		PhoneNumber: "+15551234567",
		Gender:      models.GenderFemale,
		Password:    "Abcd1234!",
	}
}
