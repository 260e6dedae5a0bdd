package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	internal "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/auth"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
	"github.com/frahmantamala/business-management/internal/role"
	"gorm.io/gorm"
)

type Repository struct {
	db       *gorm.DB
	roleRepo role.RepositoryAPI
}

func NewRepository(db *gorm.DB, roleRepo role.RepositoryAPI) *Repository {
	return &Repository{
		db:       db,
		roleRepo: roleRepo,
	}
}

const queryTimeout = 5 * time.Second

func (r *Repository) GetPasswordForEmail(ctx context.Context, email string) (string, string, error) {
	ctx, cancel := internal.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var passwordHash string
	var userID string
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`

	row := r.db.WithContext(ctx).Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", auth.ErrUserNotFound
		}
		return "", "", err
	}
	return passwordHash, userID, nil
}

// GetUserAccess resolves the user's role chain into role names and a
// flattened permission code set. Codes inherit downward: a role grants
// everything its ancestors grant.
func (r *Repository) GetUserAccess(ctx context.Context, userID string) (*auth.UserAccess, error) {
	ctx, cancel := internal.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var record userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = true", userID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	access := &auth.UserAccess{
		ID:          record.ID,
		Email:       record.Email,
		Name:        record.Name,
		Username:    record.Username,
		Position:    record.Position,
		UserType:    record.UserType,
		AccountType: record.AccountType,
		RoleNames:   []string{},
		Permissions: []string{},
	}

	if record.RoleID == "" {
		return access, nil
	}

	allRoles, err := r.roleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var userRole *role.Role
	for _, candidate := range allRoles {
		if candidate.ID == record.RoleID {
			userRole = candidate
			break
		}
	}
	if userRole == nil {
		// dangling role reference: the user keeps an empty access set
		return access, nil
	}

	chain := []*role.Role{userRole}
	ancestors, err := role.AncestorChain(userRole, allRoles)
	if err != nil {
		// cyclic store data: grant only the direct role rather than
		// failing the whole session
		ancestors = nil
	}
	chain = append(chain, ancestors...)

	seen := make(map[string]bool)
	for _, chainRole := range chain {
		access.RoleNames = append(access.RoleNames, chainRole.Name)
		for _, code := range chainRole.Permissions {
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			access.Permissions = append(access.Permissions, code)
		}
	}

	return access, nil
}
