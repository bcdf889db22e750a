package auth

import (
	"context"
	"testing"

	"github.com/desesperanza/panaderia-backend/pkg/config"
	"github.com/desesperanza/panaderia-backend/pkg/db"
	"github.com/desesperanza/panaderia-backend/pkg/db/models"
	"github.com/desesperanza/panaderia-backend/pkg/enums"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/logger"
	"github.com/desesperanza/panaderia-backend/pkg/outbox"
	"github.com/desesperanza/panaderia-backend/pkg/security"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRegisterService(t *testing.T) (RegisterService, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.OutboxEvent{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel})
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             db.NewWithConn(conn),
		Outbox:         outbox.NewService(outbox.NewRepository(conn), logg),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("NewRegisterService returned error: %v", err)
	}
	return svc, conn
}

func TestRegisterCreatesUserAndOutboxEvent(t *testing.T) {
	svc, conn := newRegisterService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterRequest{
		FirstName: "Rosa",
		LastName:  "Mendez",
		Email:     " Rosa@Example.COM ",
		Password:  "migas-123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created.Email != "rosa@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Role != enums.RoleCustomer {
		t.Fatalf("expected customer role, got %q", created.Role)
	}

	var user models.User
	if err := conn.First(&user, "email = ?", "rosa@example.com").Error; err != nil {
		t.Fatalf("user row missing: %v", err)
	}
	valid, err := security.VerifyPassword("migas-123", user.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("stored hash should verify the password, got valid=%v err=%v", valid, err)
	}

	var events []models.OutboxEvent
	if err := conn.Find(&events).Error; err != nil {
		t.Fatalf("failed to list outbox events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(events))
	}
	if events[0].EventType != enums.EventUserRegistered {
		t.Fatalf("expected user_registered event, got %q", events[0].EventType)
	}
	if events[0].AggregateID != user.ID {
		t.Fatal("outbox event should reference the created user")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newRegisterService(t)
	ctx := context.Background()

	req := RegisterRequest{
		FirstName: "Rosa",
		LastName:  "Mendez",
		Email:     "rosa@example.com",
		Password:  "migas-123",
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	_, err := svc.Register(ctx, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc, conn := newRegisterService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Rosa",
		LastName:  "Mendez",
		Email:     "rosa@example.com",
		Password:  "abc",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	var count int64
	if err := conn.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("no user should be created, found %d", count)
	}
}
