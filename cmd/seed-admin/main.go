// seed-admin creates the first admin user when none exists.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/models"
	"github.com/parcops/parc_backend/utils"
)

const (
	adminUsername = "admin"
	adminPassword = "Admin123!"
	adminName     = "Parc Admin"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to look up admin users: %v\n", err)
		os.Exit(1)
	}
	if count > 0 {
		fmt.Println("an admin user already exists; nothing to do")
		os.Exit(0)
	}

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: adminUsername,
		Name:     adminName,
		Password: adminPassword,
		Role:     models.UserRoleAdmin,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
		os.Exit(1)
	}

	token, err := utils.JwtGenerate(user.ID, user.Name, string(user.Role))
	if err != nil {
		fmt.Fprintf(os.Stderr, "admin created but token generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("admin user created")
	fmt.Println("  username:", adminUsername)
	fmt.Println("  password:", adminPassword, "(change it)")
	fmt.Println("  token   :", token)
}
