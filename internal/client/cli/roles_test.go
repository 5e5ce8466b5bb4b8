package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophaccount/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoles_AdminListsAndAssigns(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI("user", "admin")
	a, out := newTestApp(t, api, nil)
	signIn(t, a)

	require.NoError(t, a.Roles(ctx))
	assert.Contains(t, out.String(), "support")
	assert.Contains(t, out.String(), "Administrator")

	require.NoError(t, a.Assign(ctx, []string{"42", "support", "USER"}))
	assert.Equal(t, []int64{3, 1}, api.assigned[42])

	require.NoError(t, a.Unassign(ctx, []string{"42", "support"}))
	assert.Equal(t, []int64{3}, api.removed[42])
}

func TestRoles_UsageAndUnknownRole(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI("admin")
	a, _ := newTestApp(t, api, nil)
	signIn(t, a)

	require.ErrorIs(t, a.Assign(ctx, []string{"42"}), ErrUsage)
	require.ErrorIs(t, a.Assign(ctx, []string{"abc", "user"}), ErrUsage)
	require.ErrorIs(t, a.Unassign(ctx, []string{"42", "ghost"}), services.ErrInvalidRoleSelection)
	require.ErrorIs(t, a.EditRole(ctx, nil), ErrUsage)
	assert.Empty(t, api.assigned)
	assert.Empty(t, api.removed)
}

func TestRoles_DeniedForRegularUser(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI("user")
	a, _ := newTestApp(t, api, nil)
	signIn(t, a)

	require.ErrorIs(t, a.Roles(ctx), services.ErrPermissionDenied)
	require.ErrorIs(t, a.Assign(ctx, []string{"42", "user"}), services.ErrPermissionDenied)
	assert.Zero(t, api.listCalls)
	assert.Empty(t, api.assigned)
}

func TestAddAndEditRole(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI("admin")
	a, out := newTestApp(t, api, nil)
	signIn(t, a)

	stubAnswers(t, "Auditor", "Auditor", "Reads audit logs")
	require.NoError(t, a.AddRole(ctx))
	assert.Contains(t, out.String(), "Role auditor created (id 4).")

	stubAnswers(t, "", "Reads everything", "no")
	require.NoError(t, a.EditRole(ctx, []string{"auditor"}))

	role, ok := a.directory.RoleByName("auditor")
	require.True(t, ok)
	assert.Equal(t, "Auditor", role.DisplayName)
	assert.Equal(t, "Reads everything", role.Description)
	assert.False(t, role.Active)
}
