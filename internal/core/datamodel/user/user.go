package user

import "time"

type User struct {
	ID           string    `gorm:"column:id;primaryKey" db:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" db:"email"`
	Name         string    `gorm:"column:name" db:"name"`
	Username     string    `gorm:"column:username" db:"username"`
	Position     string    `gorm:"column:position" db:"position"`
	UserType     string    `gorm:"column:user_type" db:"user_type"`
	AccountType  string    `gorm:"column:account_type" db:"account_type"`
	PasswordHash string    `gorm:"column:password_hash" db:"password_hash"`
	RoleID       string    `gorm:"column:role_id;index" db:"role_id"`
	IsActive     bool      `gorm:"column:is_active;default:true" db:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at" db:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
