package role

import "time"

// Role is the persistence model for directory roles. Permissions are
// stored as a comma-joined code list; the domain layer collapses
// duplicates on read.
type Role struct {
	ID          string    `gorm:"column:id;primaryKey" db:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" db:"name"`
	ParentID    string    `gorm:"column:parent_id;index" db:"parent_id"`
	Permissions string    `gorm:"column:permissions" db:"permissions"`
	CreatedAt   time.Time `gorm:"column:created_at" db:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" db:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}
