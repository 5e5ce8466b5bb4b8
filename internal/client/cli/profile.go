package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/services"
	"github.com/dmitrijs2005/gophaccount/internal/common"
)

// WhoAmI refreshes and prints the signed-in account. When the server cannot
// be reached the cached snapshot is shown.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return services.ErrNotAuthenticated
	}

	if err := a.lifecycle.RefreshProfile(ctx); err != nil {
		if !errors.Is(err, client.ErrUnavailable) {
			return err
		}
		fmt.Fprintln(a.out, "Server unavailable, showing cached profile.")
	}

	s := a.lifecycle.Session()
	if s == nil {
		return services.ErrNotAuthenticated
	}
	acc := s.Account

	fmt.Fprintf(a.out, "ID:          %d\n", acc.ID)
	fmt.Fprintf(a.out, "Name:        %s\n", acc.FullName)
	fmt.Fprintf(a.out, "Phone:       %s\n", acc.PhoneNumber)
	fmt.Fprintf(a.out, "Gender:      %s\n", acc.Gender)
	if acc.BirthDate != nil {
		fmt.Fprintf(a.out, "Birth date:  %s\n", acc.BirthDate)
	}
	fmt.Fprintf(a.out, "Roles:       %s\n", strings.Join(acc.RoleNames(), ", "))

	perms := a.lifecycle.Permitted()
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}
	fmt.Fprintf(a.out, "Permissions: %s\n", strings.Join(names, ", "))
	if s.Persisted {
		fmt.Fprintln(a.out, "Session is remembered on this device.")
	}
	return nil
}

// EditProfile asks for new profile values. Empty answers keep the current
// value.
func (a *App) EditProfile(ctx context.Context) error {
	s := a.lifecycle.Session()
	if s == nil {
		return services.ErrNotAuthenticated
	}
	acc := s.Account

	var upd models.ProfileUpdate

	fullName, err := getSimpleText(a.reader, fmt.Sprintf("Full name [%s]", acc.FullName), a.out)
	if err != nil {
		return err
	}
	if fullName != "" && fullName != acc.FullName {
		upd.FullName = &fullName
	}

	gender, err := getSimpleText(a.reader, fmt.Sprintf("Gender (male, female, other) [%s]", acc.Gender), a.out)
	if err != nil {
		return err
	}
	if gender != "" && !strings.EqualFold(gender, string(acc.Gender)) {
		g := models.Gender(gender)
		upd.Gender = &g
	}

	current := ""
	if acc.BirthDate != nil {
		current = acc.BirthDate.String()
	}
	birthDate, err := getSimpleText(a.reader, fmt.Sprintf("Birth date YYYY-MM-DD [%s]", current), a.out)
	if err != nil {
		return err
	}
	if birthDate != "" && birthDate != current {
		d, err := models.ParseDate(birthDate)
		if err != nil {
			return common.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format")
		}
		upd.BirthDate = &d
	}

	if upd.FullName == nil && upd.Gender == nil && upd.BirthDate == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	if err := a.lifecycle.UpdateProfile(ctx, upd); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}
