package models_test

import (
	"context"
	"testing"

	"github.com/parcops/parc_backend/models"
	"github.com/parcops/parc_backend/utils"
)

func TestCreateUserHashesPasswordAndDefaults(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "jdupont",
		Name:     "Jean Dupont",
		Password: "s3cret!",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Password == "s3cret!" {
		t.Fatal("password stored in clear")
	}
	if err := utils.ComparePassword(user.Password, "s3cret!"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if user.Role != models.UserRoleTechnician {
		t.Fatalf("role = %s, want TECHNICIAN", user.Role)
	}
	if user.IsActive == nil || !*user.IsActive {
		t.Fatal("new user not active")
	}

	found, err := models.GetUserByUsername(ctx, "jdupont")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if found.ID != user.ID {
		t.Fatalf("found id = %d, want %d", found.ID, user.ID)
	}
}

// Name lookups must work with no Redis connected: the cache helpers are
// nil-safe and the database stays the source of truth.
func TestNameLookupsFallBackToDatabase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	depot := models.Depot{Name: "Depot Nord"}
	if err := db.Create(&depot).Error; err != nil {
		t.Fatalf("create depot: %v", err)
	}
	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "mbernard",
		Name:     "Marie Bernard",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	name, err := models.GetDepotName(ctx, depot.ID)
	if err != nil {
		t.Fatalf("GetDepotName: %v", err)
	}
	if name != "Depot Nord" {
		t.Fatalf("depot name = %q", name)
	}

	name, err = models.GetUserName(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserName: %v", err)
	}
	if name != "Marie Bernard" {
		t.Fatalf("user name = %q", name)
	}

	if _, err := models.GetDepotName(ctx, 9999); err == nil {
		t.Fatal("missing depot resolved a name")
	}
}
