package role

import (
	"strings"

	"github.com/frahmantamala/business-management/internal/permission"
)

// CreateRoleDTO is the transport shape for role creation requests.
type CreateRoleDTO struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdatePermissionsDTO carries either a raw code list or the editor's
// checkbox matrix; the matrix wins when both are present.
type UpdatePermissionsDTO struct {
	Permissions []string                `json:"permissions,omitempty"`
	Matrix      permission.AccessMatrix `json:"matrix,omitempty"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateRoleDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if len(d.Name) > 100 {
		return ValidationError{Msg: "name must be at most 100 characters"}
	}
	return nil
}

func (d UpdatePermissionsDTO) Validate() error {
	if d.Matrix == nil && d.Permissions == nil {
		return ValidationError{Msg: "permissions or matrix is required"}
	}
	return nil
}

// RoleResponse is the API view of a role, including the decoded matrix
// so the editor does not re-derive it client side.
type RoleResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	ParentID    *string                 `json:"parent_id,omitempty"`
	Permissions []string                `json:"permissions"`
	Matrix      permission.AccessMatrix `json:"matrix"`
	Protected   bool                    `json:"protected"`
}

func (r *Role) ToResponse() RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		ParentID:    r.ParentID,
		Permissions: r.Permissions,
		Matrix:      permission.DecodeForRole(r.Name, r.Permissions),
		Protected:   r.IsProtected(),
	}
}
