package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRoleCreated = "role.created"
	EventTypeRoleUpdated = "role.updated"
	EventTypeRoleDeleted = "role.deleted"
)

// Role lifecycle events let session holders re-resolve their principal
// after an admin changes a role they depend on.

type RoleCreatedEvent struct {
	BaseEvent
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
}

func NewRoleCreatedEvent(roleID, roleName string) *RoleCreatedEvent {
	return &RoleCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRoleCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"role_id":   roleID,
				"role_name": roleName,
			},
		},
		RoleID:   roleID,
		RoleName: roleName,
	}
}

type RoleUpdatedEvent struct {
	BaseEvent
	RoleID      string   `json:"role_id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

func NewRoleUpdatedEvent(roleID, roleName string, permissions []string) *RoleUpdatedEvent {
	return &RoleUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRoleUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"role_id":     roleID,
				"role_name":   roleName,
				"permissions": permissions,
			},
		},
		RoleID:      roleID,
		RoleName:    roleName,
		Permissions: permissions,
	}
}

type RoleDeletedEvent struct {
	BaseEvent
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
}

func NewRoleDeletedEvent(roleID, roleName string) *RoleDeletedEvent {
	return &RoleDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRoleDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"role_id":   roleID,
				"role_name": roleName,
			},
		},
		RoleID:   roleID,
		RoleName: roleName,
	}
}
