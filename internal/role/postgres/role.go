package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	internal "github.com/frahmantamala/business-management/internal"
	roleDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/role"
	"github.com/frahmantamala/business-management/internal/role"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]*role.Role, error) {
	var records []*roleDatamodel.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	roles := make([]*role.Role, 0, len(records))
	for _, record := range records {
		roles = append(roles, role.FromDataModel(record))
	}
	return roles, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*role.Role, error) {
	var record roleDatamodel.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return role.FromDataModel(&record), nil
}

// Create assigns the id; the directory, not the caller, owns
// identifier allocation. Name uniqueness is enforced here
// authoritatively, case insensitively.
func (r *RoleRepository) Create(ctx context.Context, newRole *role.Role) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(newRole.Name))).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return internal.ErrDuplicateName
	}

	if newRole.ID == "" {
		newRole.ID = uuid.NewString()
	}
	newRole.CreatedAt = time.Now()
	newRole.UpdatedAt = newRole.CreatedAt

	return r.db.WithContext(ctx).Create(role.ToDataModel(newRole)).Error
}

func (r *RoleRepository) Update(ctx context.Context, updated *role.Role) error {
	updated.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(role.ToDataModel(updated)).Error
}

func (r *RoleRepository) UpdatePermissions(ctx context.Context, id string, permissions []string) (*role.Role, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, internal.ErrRoleNotFound
	}

	err = r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"permissions": strings.Join(permissions, ","),
			"updated_at":  time.Now(),
		}).Error
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete re-checks the protection and dependent guards server side;
// the client-side CanDelete is advisory only.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return internal.ErrRoleNotFound
	}
	if existing.IsProtected() {
		return internal.ErrProtectedRole
	}

	var dependents int64
	err = r.db.WithContext(ctx).
		Model(&roleDatamodel.Role{}).
		Where("parent_id = ?", id).
		Count(&dependents).Error
	if err != nil {
		return err
	}
	if dependents > 0 {
		return internal.ErrHasDependents
	}

	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&roleDatamodel.Role{}).Error
}
