// Package principal holds the normalized, in-memory representation of
// "who is asking". The resolver and router only ever consume this
// value; nothing downstream reads raw session claims.
package principal

import (
	"context"
	"strings"
)

// Attributes are weak signals carried alongside role names. They are
// consulted only when role-name evidence is missing or ambiguous.
type Attributes struct {
	Position    string `json:"position,omitempty"`
	Role        string `json:"role,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	AccountType string `json:"account_type,omitempty"`
}

type Principal struct {
	ID          string
	Username    string
	Permissions map[string]struct{}
	RoleNames   []string
	Attributes  Attributes
}

// New builds a Principal with normalized contents: permission codes
// are deduplicated, role names lower-cased and trimmed, empty entries
// dropped.
func New(id, username string, codes []string, roleNames []string, attrs Attributes) Principal {
	permissions := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		permissions[code] = struct{}{}
	}

	names := make([]string, 0, len(roleNames))
	seen := make(map[string]bool, len(roleNames))
	for _, name := range roleNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return Principal{
		ID:          id,
		Username:    username,
		Permissions: permissions,
		RoleNames:   names,
		Attributes:  attrs,
	}
}

func (p Principal) HasCode(code string) bool {
	_, ok := p.Permissions[code]
	return ok
}

func (p Principal) HasAnyCode(codes []string) bool {
	for _, code := range codes {
		if p.HasCode(code) {
			return true
		}
	}
	return false
}

func (p Principal) AnyCodeWithPrefix(prefix string) bool {
	for code := range p.Permissions {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

func (p Principal) AnyCodeContains(substr string) bool {
	for code := range p.Permissions {
		if strings.Contains(code, substr) {
			return true
		}
	}
	return false
}

func (p Principal) AnyRoleName(match func(name string) bool) bool {
	for _, name := range p.RoleNames {
		if match(name) {
			return true
		}
	}
	return false
}

func (p Principal) HasPermissions() bool {
	return len(p.Permissions) > 0
}

func (p Principal) HasRoleEvidence() bool {
	return len(p.RoleNames) > 0
}

// Codes returns the permission set as a slice; order is unspecified.
func (p Principal) Codes() []string {
	out := make([]string, 0, len(p.Permissions))
	for code := range p.Permissions {
		out = append(out, code)
	}
	return out
}

type ctxKey string

const contextKey ctxKey = "principal"

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey).(Principal)
	return p, ok
}

func NewContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey, p)
}
