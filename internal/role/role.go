package role

import (
	"strings"
	"time"

	roleDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/role"
)

// Role is the domain representation of a directory role. Permissions
// hold canonical module:action codes; order is irrelevant and
// duplicates are collapsed on construction.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// protectedNames cannot be deleted regardless of dependents.
var protectedNames = map[string]bool{
	"super-admin": true,
	"admin":       true,
}

func (r *Role) IsProtected() bool {
	return protectedNames[strings.ToLower(strings.TrimSpace(r.Name))]
}

// HasParent reports whether the role references a parent. An empty
// string reference counts as no parent; some stores persist "" where
// others persist null.
func (r *Role) HasParent() bool {
	return r.ParentID != nil && *r.ParentID != ""
}

func (r *Role) NameEquals(other string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(other))
}

func dedupeCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func NewRole(name string, parentID *string) *Role {
	now := time.Now()
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	return &Role{
		Name:        strings.TrimSpace(name),
		ParentID:    parentID,
		Permissions: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	parent := ""
	if r.ParentID != nil {
		parent = *r.ParentID
	}
	return &roleDatamodel.Role{
		ID:          r.ID,
		Name:        r.Name,
		ParentID:    parent,
		Permissions: strings.Join(r.Permissions, ","),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(dm *roleDatamodel.Role) *Role {
	var parent *string
	if dm.ParentID != "" {
		p := dm.ParentID
		parent = &p
	}
	var perms []string
	if dm.Permissions != "" {
		perms = dedupeCodes(strings.Split(dm.Permissions, ","))
	} else {
		perms = []string{}
	}
	return &Role{
		ID:          dm.ID,
		Name:        dm.Name,
		ParentID:    parent,
		Permissions: perms,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}
