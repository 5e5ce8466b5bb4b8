package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/gate"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// DirectoryService manages the role reference set and role assignments.
// Every call goes through the lifecycle's authorization gate, so a denied
// call never reaches the network.
type DirectoryService interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
	CachedRoles() []models.Role
	RoleByName(name string) (models.Role, bool)
	CreateRole(ctx context.Context, in models.RoleInput) (*models.Role, error)
	UpdateRole(ctx context.Context, roleID int64, in models.RoleInput) (*models.Role, error)
	AssignRoles(ctx context.Context, userID int64, roleIDs []int64) error
	RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error
}

type directoryService struct {
	client    client.Client
	lifecycle AccountLifecycle

	mu    sync.RWMutex
	roles []models.Role
}

func NewDirectoryService(c client.Client, l AccountLifecycle) DirectoryService {
	return &directoryService{client: c, lifecycle: l}
}

// ListRoles fetches the role set and caches it.
func (d *directoryService) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := d.lifecycle.WithAuthorization(ctx, gate.RolesView, func(ctx context.Context, token string) error {
		var err error
		roles, err = d.client.ListRoles(ctx, token)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.roles = append([]models.Role(nil), roles...)
	d.mu.Unlock()
	return roles, nil
}

func (d *directoryService) CachedRoles() []models.Role {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Role(nil), d.roles...)
}

// RoleByName looks a role up in the cached set, case-insensitively.
func (d *directoryService) RoleByName(name string) (models.Role, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.roles {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return models.Role{}, false
}

func (d *directoryService) CreateRole(ctx context.Context, in models.RoleInput) (*models.Role, error) {
	in = trimRoleInput(in)
	if err := validateRoleInput(&in); err != nil {
		return nil, err
	}

	var role *models.Role
	err := d.lifecycle.WithAuthorization(ctx, gate.RolesManage, func(ctx context.Context, token string) error {
		var err error
		role, err = d.client.CreateRole(ctx, token, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.upsert(*role)
	return role, nil
}

func (d *directoryService) UpdateRole(ctx context.Context, roleID int64, in models.RoleInput) (*models.Role, error) {
	in = trimRoleInput(in)
	if err := validateRoleInput(&in); err != nil {
		return nil, err
	}

	var role *models.Role
	err := d.lifecycle.WithAuthorization(ctx, gate.RolesManage, func(ctx context.Context, token string) error {
		var err error
		role, err = d.client.UpdateRole(ctx, token, roleID, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.upsert(*role)
	if d.holdsRole(role.ID) {
		return role, d.lifecycle.RefreshProfile(ctx)
	}
	return role, nil
}

func (d *directoryService) AssignRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return d.changeAssignment(ctx, userID, roleIDs, d.client.AssignRoles)
}

func (d *directoryService) RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return d.changeAssignment(ctx, userID, roleIDs, d.client.RemoveRoles)
}

type assignFunc func(ctx context.Context, token string, userID int64, roleIDs []int64) error

// changeAssignment applies an assignment change and reloads the profile
// when the signed-in account is the target.
func (d *directoryService) changeAssignment(ctx context.Context, userID int64, roleIDs []int64, fn assignFunc) error {
	if len(roleIDs) == 0 {
		return fmt.Errorf("%w: no roles given", ErrInvalidRoleSelection)
	}

	err := d.lifecycle.WithAuthorization(ctx, gate.UserRolesAssign, func(ctx context.Context, token string) error {
		return fn(ctx, token, userID, roleIDs)
	})
	if err != nil {
		return err
	}

	if sess := d.lifecycle.Session(); sess != nil && sess.Account.ID == userID {
		return d.lifecycle.RefreshProfile(ctx)
	}
	return nil
}

func (d *directoryService) upsert(role models.Role) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.roles {
		if d.roles[i].ID == role.ID {
			d.roles[i] = role
			return
		}
	}
	d.roles = append(d.roles, role)
}

func (d *directoryService) holdsRole(roleID int64) bool {
	sess := d.lifecycle.Session()
	if sess == nil {
		return false
	}
	for _, r := range sess.Account.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

func trimRoleInput(in models.RoleInput) models.RoleInput {
	in.Name = strings.ToLower(strings.TrimSpace(in.Name))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Description = strings.TrimSpace(in.Description)
	return in
}
