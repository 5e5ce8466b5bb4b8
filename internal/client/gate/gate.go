// Package gate decides whether a session may reach a screen or action.
//
// The decision is a pure function of the session's role set and a static
// capability -> role-names table. Unknown capabilities are denied, as is
// everything when there is no session.
package gate

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// Capability names a screen or an action.
type Capability string

const (
	ScreenHome  Capability = "screen:home"
	ScreenAdmin Capability = "screen:admin"

	ProfileView    Capability = "profile:view"
	ProfileEdit    Capability = "profile:edit"
	PasswordChange Capability = "password:change"

	RolesView       Capability = "roles:view"
	RolesManage     Capability = "roles:manage"
	UserRolesAssign Capability = "users:roles:assign"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Policy maps a capability to the role names allowed to use it.
type Policy map[Capability][]string

// DefaultPolicy is the built-in table: every signed-in role reaches its own
// profile, only admins manage roles.
func DefaultPolicy() Policy {
	return Policy{
		ScreenHome:      {RoleUser, RoleAdmin},
		ProfileView:     {RoleUser, RoleAdmin},
		ProfileEdit:     {RoleUser, RoleAdmin},
		PasswordChange:  {RoleUser, RoleAdmin},
		ScreenAdmin:     {RoleAdmin},
		RolesView:       {RoleAdmin},
		RolesManage:     {RoleAdmin},
		UserRolesAssign: {RoleAdmin},
	}
}

// Gate evaluates a Policy. It is immutable after New and safe for
// concurrent use.
type Gate struct {
	allowed map[Capability]map[string]struct{}
}

// New builds a Gate from p. Role names are matched case-insensitively.
func New(p Policy) *Gate {
	allowed := make(map[Capability]map[string]struct{}, len(p))
	for capability, roles := range p {
		set := make(map[string]struct{}, len(roles))
		for _, r := range roles {
			set[strings.ToLower(r)] = struct{}{}
		}
		allowed[capability] = set
	}
	return &Gate{allowed: allowed}
}

// Allows reports whether any active role in roles grants c.
func (g *Gate) Allows(roles []models.Role, c Capability) bool {
	set, ok := g.allowed[c]
	if !ok {
		return false
	}
	for _, r := range roles {
		if !r.Active {
			continue
		}
		if _, ok := set[strings.ToLower(r.Name)]; ok {
			return true
		}
	}
	return false
}

// AllowsSession is Allows over the session's roles; a nil session is denied.
func (g *Gate) AllowsSession(s *models.Session, c Capability) bool {
	if s == nil {
		return false
	}
	return g.Allows(s.Account.Roles, c)
}

// Permitted lists every capability roles grant, sorted.
func (g *Gate) Permitted(roles []models.Role) []Capability {
	out := make([]Capability, 0, len(g.allowed))
	for c := range g.allowed {
		if g.Allows(roles, c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
