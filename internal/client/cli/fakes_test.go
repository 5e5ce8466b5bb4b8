package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
	"github.com/dmitrijs2005/gophaccount/internal/client/store"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// stubAnswers feeds the given answers to every prompt in order.
func stubAnswers(t *testing.T, answers ...string) {
	t.Helper()
	queue := append([]string(nil), answers...)
	next := func() (string, error) {
		if len(queue) == 0 {
			return "", io.EOF
		}
		v := queue[0]
		queue = queue[1:]
		return v, nil
	}

	origST, origGP, origGC := getSimpleText, getPassword, getConfirmation
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getPassword = func(_ *bufio.Reader, _ string, _ io.Writer) ([]byte, error) {
		v, err := next()
		if err != nil {
			return nil, err
		}
		return []byte(v), nil
	}
	getConfirmation = func(_ *bufio.Reader, _ string, _ io.Writer) (bool, error) {
		v, err := next()
		return v == "y", err
	}
	t.Cleanup(func() {
		getSimpleText, getPassword, getConfirmation = origST, origGP, origGC
	})
}

// fakeAPI is an in-memory backend. Unset errors mean success.
type fakeAPI struct {
	client.Client

	mu sync.Mutex

	account  models.Account
	token    string
	loginErr error
	verifyOK string

	registered []models.RegisterRequest
	verified   []models.VerifyRequest
	forgot     []string
	resets     []models.ResetPasswordRequest
	changed    []models.ChangePasswordRequest
	updates    []models.ProfileUpdate
	roles      []models.Role
	assigned   map[int64][]int64
	removed    map[int64][]int64
	listCalls  int
	logouts    int
}

func newFakeAPI(roles ...string) *fakeAPI {
	all := []models.Role{
		{ID: 1, Name: "user", DisplayName: "User", Active: true},
		{ID: 2, Name: "admin", DisplayName: "Administrator", Active: true},
		{ID: 3, Name: "support", DisplayName: "Support", Active: true},
	}
	acc := models.Account{
		ID:          7,
		FullName:    "Ivan Petrov",
		PhoneNumber: "+15551234567",
		Gender:      models.GenderMale,
		Verified:    true,
	}
	for _, name := range roles {
		for _, r := range all {
			if r.Name == name {
				acc.Roles = append(acc.Roles, r)
			}
		}
	}
	return &fakeAPI{
		account:  acc,
		token:    "tok-1",
		verifyOK: "123456",
		roles:    all,
		assigned: map[int64][]int64{},
		removed:  map[int64][]int64{},
	}
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	return nil
}

func (f *fakeAPI) VerifyAccount(_ context.Context, req models.VerifyRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, req)
	if req.Code != f.verifyOK {
		return client.NewResponseError(400, "Invalid verification code", nil)
	}
	return nil
}

func (f *fakeAPI) ResendVerification(context.Context, string) error { return nil }

func (f *fakeAPI) Login(context.Context, models.LoginRequest) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAPI) ForgotPassword(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgot = append(f.forgot, phone)
	return nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, req models.ResetPasswordRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, req)
	return nil
}

func (f *fakeAPI) Me(_ context.Context, token string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.token {
		return nil, client.NewResponseError(401, "Could not validate credentials", nil)
	}
	acc := f.account.Clone()
	return &acc, nil
}

func (f *fakeAPI) Logout(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return nil
}

func (f *fakeAPI) ChangePassword(_ context.Context, _ string, req models.ChangePasswordRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, req)
	return nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, _ string, _ int64, upd models.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd)
	if upd.FullName != nil {
		f.account.FullName = *upd.FullName
	}
	return nil
}

func (f *fakeAPI) ListRoles(context.Context, string) ([]models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]models.Role(nil), f.roles...), nil
}

func (f *fakeAPI) CreateRole(_ context.Context, _ string, in models.RoleInput) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := models.Role{ID: int64(len(f.roles) + 1), Name: in.Name, DisplayName: in.DisplayName, Description: in.Description, Active: true}
	f.roles = append(f.roles, r)
	return &r, nil
}

func (f *fakeAPI) UpdateRole(_ context.Context, _ string, roleID int64, in models.RoleInput) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.roles {
		if f.roles[i].ID == roleID {
			f.roles[i].DisplayName = in.DisplayName
			f.roles[i].Description = in.Description
			if in.Active != nil {
				f.roles[i].Active = *in.Active
			}
			r := f.roles[i]
			return &r, nil
		}
	}
	return nil, client.NewResponseError(404, "Role not found", nil)
}

func (f *fakeAPI) AssignRoles(_ context.Context, _ string, userID int64, roleIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned[userID] = append(f.assigned[userID], roleIDs...)
	return nil
}

func (f *fakeAPI) RemoveRoles(_ context.Context, _ string, userID int64, roleIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed[userID] = append(f.removed[userID], roleIDs...)
	return nil
}

func newTestApp(t *testing.T, api *fakeAPI, st store.CredentialStore) (*App, *bytes.Buffer) {
	t.Helper()
	if st == nil {
		st = store.NewMemoryStore()
	}
	lc := services.NewAccountLifecycle(api, st, services.WithClock(func() time.Time { return testNow }))
	var out bytes.Buffer
	return newApp(lc, services.NewDirectoryService(api, lc), strings.NewReader(""), &out), &out
}

// signIn logs the app in through the command handler.
func signIn(t *testing.T, a *App) {
	t.Helper()
	stubAnswers(t, "+15551234567", "Secret12!", "n")
	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("login: %v", err)
	}
}
