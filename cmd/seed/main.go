package main

import (
	"fmt"
	"log"
	"os"

	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/database"
	"github.com/automeet/automeet/backend/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Seed permissions
	permissions := []models.Permission{
		{Name: "users:read", Label: "View users", Type: "I"},
		{Name: "users:write", Label: "Manage users", Type: "I"},
		{Name: "meetings:read", Label: "View meetings", Type: "I"},
		{Name: "meetings:write", Label: "Manage meetings", Type: "I"},
		{Name: "teams:manage", Label: "Manage teams and invites", Type: "I"},
		{Name: "logs:read", Label: "View activity logs", Type: "I"},
	}
	for i := range permissions {
		if err := db.Where(models.Permission{Name: permissions[i].Name}).
			FirstOrCreate(&permissions[i]).Error; err != nil {
			log.Fatal("Failed to seed permission:", err)
		}
	}
	fmt.Printf("✓ Seeded %d permissions\n", len(permissions))

	// Seed roles
	admin := models.Role{Name: "admin", HasDashboardAccess: true}
	if err := db.Where(models.Role{Name: "admin"}).FirstOrCreate(&admin).Error; err != nil {
		log.Fatal("Failed to seed admin role:", err)
	}
	if err := db.Model(&admin).Association("Permissions").Replace(permissions); err != nil {
		log.Fatal("Failed to assign admin permissions:", err)
	}

	member := models.Role{Name: "member", HasDashboardAccess: false}
	if err := db.Where(models.Role{Name: "member"}).FirstOrCreate(&member).Error; err != nil {
		log.Fatal("Failed to seed member role:", err)
	}
	fmt.Println("✓ Seeded roles: admin, member")

	// Seed team roles
	for _, name := range []string{"Owner", "Editor", "Viewer"} {
		role := models.TeamRole{Name: name}
		if err := db.Where(models.TeamRole{Name: name}).FirstOrCreate(&role).Error; err != nil {
			log.Fatal("Failed to seed team role:", err)
		}
	}
	fmt.Println("✓ Seeded team roles: Owner, Editor, Viewer")

	// Seed initial admin user when requested
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email != "" && password != "" {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			log.Fatal("Failed to check admin user:", err)
		}
		if count == 0 {
			user := models.User{
				FirstName:  "Admin",
				LastName:   "User",
				Email:      email,
				IsActive:   true,
				IsVerified: true,
			}
			if err := user.SetPassword(password); err != nil {
				log.Fatal("Failed to hash admin password:", err)
			}
			if err := db.Create(&user).Error; err != nil {
				log.Fatal("Failed to seed admin user:", err)
			}
			if err := db.Model(&user).Association("Roles").Append(&admin); err != nil {
				log.Fatal("Failed to assign admin role:", err)
			}
			fmt.Printf("✓ Seeded admin user %s\n", email)
		}
	}

	fmt.Println("✓ Seeding complete")
}
