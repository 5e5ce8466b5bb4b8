package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/gate"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// RefreshProfile reloads the session's account snapshot.
func (l *accountLifecycle) RefreshProfile(ctx context.Context) error {
	release, err := l.begin(opProfile)
	if err != nil {
		return err
	}
	defer release()

	return l.WithAuthorization(ctx, gate.ProfileView, l.reloadAccount)
}

// UpdateProfile sends the changed fields and reloads the snapshot.
func (l *accountLifecycle) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		upd.FullName = &name
	}
	if upd.Gender != nil {
		g, _ := models.ParseGender(string(*upd.Gender))
		upd.Gender = &g
	}
	if err := validateProfileUpdate(&upd, l.now()); err != nil {
		return err
	}

	release, err := l.begin(opProfile)
	if err != nil {
		return err
	}
	defer release()

	return l.WithAuthorization(ctx, gate.ProfileEdit, func(ctx context.Context, token string) error {
		sess := l.Session()
		if sess == nil || sess.Token != token {
			return ErrNotAuthenticated
		}
		if err := l.client.UpdateProfile(ctx, token, sess.Account.ID, upd); err != nil {
			return err
		}
		return l.reloadAccount(ctx, token)
	})
}

func (l *accountLifecycle) reloadAccount(ctx context.Context, token string) error {
	acc, err := l.client.Me(ctx, token)
	if err != nil {
		return err
	}
	if len(acc.Roles) == 0 {
		l.expireSession(ctx, token)
		return ErrAccountIncomplete
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session != nil && l.session.Token == token {
		l.session.Account = *acc
	}
	return nil
}
