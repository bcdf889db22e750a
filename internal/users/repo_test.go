package users

import (
	"context"
	"testing"
	"time"

	"github.com/desesperanza/panaderia-backend/pkg/db"
	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	"github.com/desesperanza/panaderia-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func TestRepositoryCreateNormalizesEmail(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "  Rosa@Example.COM ",
		PasswordHash: "hash",
		FirstName:    "Rosa",
		LastName:     "Mendez",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Email != "rosa@example.com" {
		t.Fatalf("expected lowercased email, got %q", created.Email)
	}
	if created.Role != enums.RoleCustomer {
		t.Fatalf("expected default customer role, got %q", created.Role)
	}

	found, err := repo.FindByEmail(ctx, "ROSA@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if found.ID != created.ID {
		t.Fatal("FindByEmail should locate the created user regardless of casing")
	}
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	dto := CreateUserDTO{
		Email:        "rosa@example.com",
		PasswordHash: "hash",
		FirstName:    "Rosa",
		LastName:     "Mendez",
	}
	if _, err := repo.Create(ctx, dto); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	_, err := repo.Create(ctx, dto)
	if err == nil {
		t.Fatal("expected duplicate email insert to fail")
	}
	if !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestRepositoryUpdateProfileAndLastLogin(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "rosa@example.com",
		PasswordHash: "hash",
		FirstName:    "Rosa",
		LastName:     "Mendez",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newFirst := " Rosana "
	phone := "555-0101"
	if err := repo.UpdateProfile(ctx, created.ID, UpdateProfileDTO{
		FirstName: &newFirst,
		Phone:     &phone,
	}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateLastLogin(ctx, created.ID, at); err != nil {
		t.Fatalf("UpdateLastLogin returned error: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if reloaded.FirstName != "Rosana" {
		t.Fatalf("expected trimmed first name, got %q", reloaded.FirstName)
	}
	if reloaded.LastName != "Mendez" {
		t.Fatalf("untouched fields should survive, got last name %q", reloaded.LastName)
	}
	if reloaded.Phone == nil || *reloaded.Phone != "555-0101" {
		t.Fatalf("expected phone to be set, got %v", reloaded.Phone)
	}
	if reloaded.LastLoginAt == nil {
		t.Fatal("expected last_login_at to be set")
	}
}
