package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
)

// ErrUsage reports malformed command arguments.
var ErrUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", ErrUsage, format)
}

// Roles lists the role reference set.
func (a *App) Roles(ctx context.Context) error {
	roles, err := a.directory.ListRoles(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDISPLAY NAME\tACTIVE\tDESCRIPTION")
	for _, r := range roles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", r.ID, r.Name, r.DisplayName, r.Active, r.Description)
	}
	return tw.Flush()
}

// AddRole creates a role.
func (a *App) AddRole(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Role name (lowercase, e.g. support_agent)", a.out)
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(a.reader, "Display name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	role, err := a.directory.CreateRole(ctx, models.RoleInput{
		Name:        name,
		DisplayName: displayName,
		Description: description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Role %s created (id %d).\n", role.Name, role.ID)
	return nil
}

// EditRole updates the role named in args. Empty answers keep the current
// value.
func (a *App) EditRole(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("editrole <role>")
	}

	role, err := a.lookupRole(ctx, args[0])
	if err != nil {
		return err
	}

	in := models.RoleInput{
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Description: role.Description,
	}

	if in.DisplayName, err = a.askDefault("Display name", role.DisplayName); err != nil {
		return err
	}
	if in.Description, err = a.askDefault("Description", role.Description); err != nil {
		return err
	}

	active, err := getSimpleText(a.reader, fmt.Sprintf("Active (yes/no) [%t]", role.Active), a.out)
	if err != nil {
		return err
	}
	switch strings.ToLower(active) {
	case "":
	case "y", "yes", "true":
		v := true
		in.Active = &v
	case "n", "no", "false":
		v := false
		in.Active = &v
	default:
		return usage("answer yes or no")
	}

	updated, err := a.directory.UpdateRole(ctx, role.ID, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Role %s updated.\n", updated.Name)
	return nil
}

// Assign grants roles to a user: assign <user_id> <role> [role...].
func (a *App) Assign(ctx context.Context, args []string) error {
	userID, roleIDs, err := a.parseAssignment(ctx, "assign", args)
	if err != nil {
		return err
	}
	if err := a.directory.AssignRoles(ctx, userID, roleIDs); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Roles assigned to user %d.\n", userID)
	return nil
}

// Unassign revokes roles from a user: unassign <user_id> <role> [role...].
func (a *App) Unassign(ctx context.Context, args []string) error {
	userID, roleIDs, err := a.parseAssignment(ctx, "unassign", args)
	if err != nil {
		return err
	}
	if err := a.directory.RemoveRoles(ctx, userID, roleIDs); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Roles removed from user %d.\n", userID)
	return nil
}

func (a *App) parseAssignment(ctx context.Context, cmd string, args []string) (int64, []int64, error) {
	if len(args) < 2 {
		return 0, nil, usage(cmd + " <user_id> <role> [role...]")
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || userID <= 0 {
		return 0, nil, usage(cmd + " <user_id> <role> [role...]")
	}

	ids := make([]int64, 0, len(args)-1)
	for _, name := range args[1:] {
		role, err := a.lookupRole(ctx, name)
		if err != nil {
			return 0, nil, err
		}
		ids = append(ids, role.ID)
	}
	return userID, ids, nil
}

// lookupRole resolves a role name, loading the role set on first use.
func (a *App) lookupRole(ctx context.Context, name string) (models.Role, error) {
	if len(a.directory.CachedRoles()) == 0 {
		if _, err := a.directory.ListRoles(ctx); err != nil {
			return models.Role{}, err
		}
	}
	role, ok := a.directory.RoleByName(name)
	if !ok {
		return models.Role{}, fmt.Errorf("%w: unknown role %q", services.ErrInvalidRoleSelection, name)
	}
	return role, nil
}

func (a *App) askDefault(prompt, current string) (string, error) {
	v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", prompt, current), a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}
