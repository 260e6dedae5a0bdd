package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/frahmantamala/business-management/internal/permission"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the protected roles and sample users",
	Long:  `Seed the protected super-admin and admin roles, a small role hierarchy and sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			if err := db.Exec("DELETE FROM roles").Error; err != nil {
				log.Fatalf("failed to clear roles: %v", err)
			}
			fmt.Println("Cleared existing roles and users")
		}

		fullMatrix := permission.AccessMatrix{}
		for _, m := range permission.Modules {
			fullMatrix[m] = permission.MatrixEntry{Access: true, Create: true, Read: true, Update: true, Delete: true}
		}

		hrMatrix := permission.AccessMatrix{
			permission.ModuleDashboard:  {Access: true, Read: true},
			permission.ModuleHR:         {Access: true, Create: true, Read: true, Update: true, Delete: true},
			permission.ModuleAttendance: {Access: true, Create: true, Read: true, Update: true},
			permission.ModuleReports:    {Access: true},
		}

		employeeMatrix := permission.AccessMatrix{
			permission.ModuleDashboard:  {Access: true, Read: true},
			permission.ModuleAttendance: {Access: true, Read: true},
			permission.ModuleTasks:      {Access: true, Read: true, Update: true},
		}

		superAdminID := seedRole(db, "super-admin", nil, permission.EncodeForRole("super-admin", fullMatrix))
		adminID := seedRole(db, "admin", &superAdminID, permission.EncodeForRole("admin", fullMatrix))
		hrID := seedRole(db, "hr-manager", &adminID, permission.EncodeForRole("hr-manager", hrMatrix))
		employeeID := seedRole(db, "employee", &hrID, permission.EncodeForRole("employee", employeeMatrix))

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		adminUserID := cfg.Security.BootstrapAdminID
		if adminUserID == "" {
			adminUserID = uuid.NewString()
		}
		seedUser(db, adminUserID, "admin@business.local", "Platform Admin", "platform-admin", "Administrator", superAdminID, string(hash))
		seedUser(db, uuid.NewString(), "hr@business.local", "Hana Resou", "hana", "HR Manager", hrID, string(hash))
		seedUser(db, uuid.NewString(), "employee@business.local", "Evan Ployee", "evan", "Technician", employeeID, string(hash))

		fmt.Println("Seeding complete")
	},
}

func seedRole(db *gorm.DB, name string, parentID *string, codes []string) string {
	var existingID string
	row := db.Raw("SELECT id FROM roles WHERE LOWER(name) = LOWER(?)", name).Row()
	if err := row.Scan(&existingID); err == nil {
		fmt.Printf("role %s already exists\n", name)
		return existingID
	}

	id := uuid.NewString()
	parent := ""
	if parentID != nil {
		parent = *parentID
	}
	perms := strings.Join(codes, ",")

	if err := db.Exec(
		"INSERT INTO roles (id, name, parent_id, permissions, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, name, parent, perms, time.Now(), time.Now(),
	).Error; err != nil {
		log.Fatalf("failed to insert role %s: %v", name, err)
	}

	fmt.Println("Seeded role:", name)
	return id
}

func seedUser(db *gorm.DB, id, email, name, username, position, roleID, passwordHash string) {
	var exists int
	row := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row()
	if err := row.Scan(&exists); err == nil {
		fmt.Printf("user %s already exists\n", email)
		return
	}

	if err := db.Exec(
		"INSERT INTO users (id, email, name, username, position, user_type, account_type, password_hash, role_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, true, ?, ?)",
		id, email, name, username, position, "staff", "internal", passwordHash, roleID, time.Now(), time.Now(),
	).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	fmt.Println("Seeded user:", email)
}
