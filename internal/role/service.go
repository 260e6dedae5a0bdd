package role

import (
	"context"
	"log/slog"

	internal "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/core/events"
	"github.com/frahmantamala/business-management/internal/permission"
)

// RepositoryAPI is the directory contract the service depends on. Both
// the local postgres store and the remote directory client satisfy it;
// the store stays authoritative for every conflict the pre-checks here
// only advise on.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*Role, error)
	GetByID(ctx context.Context, id string) (*Role, error)
	Create(ctx context.Context, r *Role) error
	Update(ctx context.Context, r *Role) error
	UpdatePermissions(ctx context.Context, id string, permissions []string) (*Role, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo     RepositoryAPI
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) GetAllRoles(ctx context.Context) ([]*Role, error) {
	roles, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to fetch roles from directory", "error", err)
		return nil, internal.NewExternalError("failed to fetch roles", err)
	}
	return roles, nil
}

// GetTree recomputes the hierarchy from the latest fetch; nothing is
// cached between calls.
func (s *Service) GetTree(ctx context.Context) ([]*RoleNode, error) {
	roles, err := s.GetAllRoles(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(roles, nil), nil
}

func (s *Service) GetRole(ctx context.Context, id string) (*Role, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch role", "role_id", id, "error", err)
		return nil, err
	}
	if r == nil {
		return nil, internal.ErrRoleNotFound
	}
	return r, nil
}

func (s *Service) CreateRole(ctx context.Context, dto *CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidRoleName)
	}

	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to fetch roles for name check", "error", err)
		return nil, internal.NewExternalError("failed to fetch roles", err)
	}

	for _, r := range existing {
		if r.NameEquals(dto.Name) {
			s.logger.Warn("role name collision", "name", dto.Name, "existing_id", r.ID)
			return nil, internal.ErrDuplicateName
		}
	}

	if dto.ParentID != nil && *dto.ParentID != "" {
		parent := findByID(existing, *dto.ParentID)
		if parent == nil {
			return nil, internal.NewValidationError("parent role does not exist", internal.ErrCodeInvalidParent)
		}
	}

	newRole := NewRole(dto.Name, dto.ParentID)
	if err := s.repo.Create(ctx, newRole); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create role", "name", dto.Name, "error", err)
		return nil, internal.NewExternalError("failed to create role", err)
	}

	s.logger.Info("role created", "role_id", newRole.ID, "name", newRole.Name)
	s.publish(ctx, events.NewRoleCreatedEvent(newRole.ID, newRole.Name))

	return newRole, nil
}

// UpdateRolePermissions normalizes the submitted permissions through
// the codec: malformed codes are dropped and admin-class roles keep
// admin:manage even if the editor unchecked everything.
func (s *Service) UpdateRolePermissions(ctx context.Context, roleID string, dto *UpdatePermissionsDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	existing, err := s.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	matrix := dto.Matrix
	if matrix == nil {
		matrix = permission.Decode(dto.Permissions)
	}
	codes := permission.EncodeForRole(existing.Name, matrix)

	updated, err := s.repo.UpdatePermissions(ctx, roleID, codes)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to update role permissions", "role_id", roleID, "error", err)
		return nil, internal.NewExternalError("failed to update role permissions", err)
	}

	s.logger.Info("role permissions updated",
		"role_id", roleID,
		"role_name", existing.Name,
		"code_count", len(codes))
	s.publish(ctx, events.NewRoleUpdatedEvent(updated.ID, updated.Name, codes))

	return updated, nil
}

// ReassignParent moves a role in the hierarchy, refusing assignments
// that would make the role its own ancestor.
func (s *Service) ReassignParent(ctx context.Context, roleID string, newParentID *string) (*Role, error) {
	existing, err := s.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, internal.NewExternalError("failed to fetch roles", err)
	}

	if newParentID != nil && *newParentID != "" {
		if findByID(all, *newParentID) == nil {
			return nil, internal.NewValidationError("parent role does not exist", internal.ErrCodeInvalidParent)
		}
		if WouldCycle(roleID, *newParentID, all) {
			s.logger.Warn("rejected cyclic parent assignment",
				"role_id", roleID, "new_parent_id", *newParentID)
			return nil, internal.ErrCyclicHierarchy
		}
	}

	existing.ParentID = newParentID
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, internal.NewExternalError("failed to update role parent", err)
	}

	s.publish(ctx, events.NewRoleUpdatedEvent(existing.ID, existing.Name, existing.Permissions))
	return existing, nil
}

func (s *Service) DeleteRole(ctx context.Context, roleID string) error {
	existing, err := s.GetRole(ctx, roleID)
	if err != nil {
		return err
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return internal.NewExternalError("failed to fetch roles", err)
	}

	// advisory pre-check; the store's own rejection still wins
	if err := CanDelete(existing, all); err != nil {
		s.logger.Warn("role deletion blocked", "role_id", roleID, "name", existing.Name, "reason", err)
		return err
	}

	if err := s.repo.Delete(ctx, roleID); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		s.logger.Error("failed to delete role", "role_id", roleID, "error", err)
		return internal.NewExternalError("failed to delete role", err)
	}

	s.logger.Info("role deleted", "role_id", roleID, "name", existing.Name)
	s.publish(ctx, events.NewRoleDeletedEvent(existing.ID, existing.Name))

	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish role event", "event_type", event.EventType(), "error", err)
	}
}

func findByID(roles []*Role, id string) *Role {
	for _, r := range roles {
		if r.ID == id {
			return r
		}
	}
	return nil
}
