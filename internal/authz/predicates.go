package authz

import (
	"strings"

	"github.com/frahmantamala/business-management/internal/principal"
)

// RolePredicate is a tagged, independently testable signal over a
// principal. Precedence lives in the ordered lists that consume these,
// never inside a predicate itself.
type RolePredicate struct {
	Tag   string
	Match func(p principal.Principal) bool
}

// NameContains matches when any role name contains the substring.
func NameContains(substr string) RolePredicate {
	return RolePredicate{
		Tag: "name-contains-" + substr,
		Match: func(p principal.Principal) bool {
			return p.AnyRoleName(func(name string) bool {
				return strings.Contains(name, substr)
			})
		},
	}
}

// NameContainsWithout matches when a single role name contains the
// wanted substring and that same name does not contain the excluded
// one. The per-name evaluation matters: "hr-admin" must not count as
// an admin name even though a separate plain "admin" entry would.
func NameContainsWithout(want, without string) RolePredicate {
	return RolePredicate{
		Tag: "name-contains-" + want + "-without-" + without,
		Match: func(p principal.Principal) bool {
			return p.AnyRoleName(func(name string) bool {
				return strings.Contains(name, want) && !strings.Contains(name, without)
			})
		},
	}
}

// NameEquals matches on an exact (already lower-cased) role name.
func NameEquals(name string) RolePredicate {
	return RolePredicate{
		Tag: "name-equals-" + name,
		Match: func(p principal.Principal) bool {
			return p.AnyRoleName(func(n string) bool { return n == name })
		},
	}
}

// NameContainsAny matches when any role name contains any of the
// substrings.
func NameContainsAny(substrs ...string) RolePredicate {
	return RolePredicate{
		Tag: "name-contains-any-" + strings.Join(substrs, "|"),
		Match: func(p principal.Principal) bool {
			return p.AnyRoleName(func(name string) bool {
				for _, s := range substrs {
					if strings.Contains(name, s) {
						return true
					}
				}
				return false
			})
		},
	}
}

// AttributeContains consults the weak attribute signals plus the
// username for a substring, case insensitively.
func AttributeContains(substr string) RolePredicate {
	return RolePredicate{
		Tag: "attribute-contains-" + substr,
		Match: func(p principal.Principal) bool {
			fields := []string{
				p.Attributes.Position,
				p.Attributes.Role,
				p.Attributes.UserType,
				p.Attributes.AccountType,
				p.Username,
			}
			for _, f := range fields {
				if f != "" && strings.Contains(strings.ToLower(f), substr) {
					return true
				}
			}
			return false
		},
	}
}

// CodeContainsAny matches when any held permission code contains any
// of the substrings.
func CodeContainsAny(substrs ...string) RolePredicate {
	return RolePredicate{
		Tag: "code-contains-any-" + strings.Join(substrs, "|"),
		Match: func(p principal.Principal) bool {
			for _, s := range substrs {
				if p.AnyCodeContains(s) {
					return true
				}
			}
			return false
		},
	}
}

// AnyOf matches when at least one of the predicates matches.
func AnyOf(tag string, predicates ...RolePredicate) RolePredicate {
	return RolePredicate{
		Tag: tag,
		Match: func(p principal.Principal) bool {
			for _, pred := range predicates {
				if pred.Match(p) {
					return true
				}
			}
			return false
		},
	}
}
