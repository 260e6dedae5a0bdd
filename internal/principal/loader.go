package principal

import (
	"context"
	"log/slog"
	"strings"

	internal "github.com/frahmantamala/business-management/internal"
)

// PermissionSource fetches the flattened permission codes a session
// holds. Implementations must return ErrSessionInvalid for an
// unauthorized fetch rather than an empty slice.
type PermissionSource interface {
	FetchPermissions(ctx context.Context, userID string) ([]string, error)
}

// roleNameKeys are tried in priority order; the first key holding a
// structurally valid role list wins. Session payloads written by
// different client versions used different names for the same data.
var roleNameKeys = []string{"roles", "role_names", "authorities", "groups"}

var idKeys = []string{"user_id", "sub", "id"}

// Loader builds a Principal from raw session claims plus a permission
// fetch. It is the only component that reads claim maps directly.
type Loader struct {
	permissions PermissionSource
	logger      *slog.Logger
}

func NewLoader(permissions PermissionSource, logger *slog.Logger) *Loader {
	return &Loader{
		permissions: permissions,
		logger:      logger,
	}
}

// Load resolves claims into a normalized Principal. A failed
// permission fetch with ErrSessionInvalid propagates; it must never be
// conflated with an empty permission set.
func (l *Loader) Load(ctx context.Context, claims map[string]interface{}) (Principal, error) {
	id := firstString(claims, idKeys)
	username, _ := claims["username"].(string)

	roleNames := l.extractRoleNames(claims)

	attrs := Attributes{
		Position:    firstString(claims, []string{"position"}),
		Role:        firstString(claims, []string{"role"}),
		UserType:    firstString(claims, []string{"user_type", "userType"}),
		AccountType: firstString(claims, []string{"account_type", "accountType"}),
	}

	var codes []string
	if l.permissions != nil && id != "" {
		fetched, err := l.permissions.FetchPermissions(ctx, id)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeSessionInvalid {
				l.logger.Warn("permission fetch unauthorized, session invalid", "user_id", id)
				return Principal{}, err
			}
			l.logger.Error("permission fetch failed", "user_id", id, "error", err)
			return Principal{}, err
		}
		codes = fetched
	}

	// claims may also carry inline permission codes (older payloads)
	codes = append(codes, stringList(claims["permissions"])...)

	return New(id, username, codes, roleNames, attrs), nil
}

func (l *Loader) extractRoleNames(claims map[string]interface{}) []string {
	for _, key := range roleNameKeys {
		raw, ok := claims[key]
		if !ok {
			continue
		}
		if names := stringList(raw); len(names) > 0 {
			return names
		}
	}
	return nil
}

// stringList accepts the shapes session payloads actually contain:
// []string, []interface{} of strings, or a comma-joined string.
func stringList(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

func firstString(claims map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if s, ok := claims[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
