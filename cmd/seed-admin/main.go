// Seeds the administrator account and hashes any plaintext passwords left
// over from imported user rows.
// cmd/seed-admin/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"imex-website/config"
	"imex-website/models"
	"imex-website/repository"
	"imex-website/services"
	"imex-website/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// adminInput is checked before anything touches the database.
type adminInput struct {
	UserName string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=200"`
	Password string `validate:"required,strongpassword"`
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		config.Log.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to load configuration")
	}
	config.InitLogging(cfg.App.LogLevel)

	input := adminInput{UserName: cfg.Admin.UserName, Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	if err := validateInput(input); err != nil {
		config.Log.WithError(err).Fatal("Invalid ADMIN_USERNAME / ADMIN_EMAIL / ADMIN_PASSWORD")
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to initialize database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users := repository.NewUserRepository(db)
	result, err := seedAdmin(ctx, services.NewAccountService(users), users, input)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to seed admin account")
	}
	config.Log.WithField("email", input.Email).Info(result)

	if err := hashLegacyPasswords(db); err != nil {
		config.Log.WithError(err).Fatal("Failed to hash legacy passwords")
	}
	config.Log.Info("Seeding completed")
}

func validateInput(input adminInput) error {
	v := validator.New()
	if err := utils.RegisterValidations(v); err != nil {
		return err
	}
	return v.Struct(input)
}

// seedAdmin creates the admin account, or resets its password when the email
// is already registered to an admin.
func seedAdmin(ctx context.Context, accounts *services.AccountService, users repository.UserRepository, input adminInput) (string, error) {
	existing, err := accounts.FindByEmail(ctx, input.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user := &models.User{UserName: input.UserName, Email: input.Email}
		if err := accounts.Create(ctx, user, input.Password, models.RoleAdmin); err != nil {
			return "", fmt.Errorf("create admin: %w", err)
		}
		return "Admin account created", nil
	case err != nil:
		return "", err
	}

	if existing.Role != models.RoleAdmin {
		return "", fmt.Errorf("user %s exists with role %q", existing.Email, existing.Role)
	}
	if accounts.CheckPassword(existing, input.Password) {
		return "Admin account already up to date, skipping", nil
	}
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(ctx, existing.UserID, hashed, time.Now()); err != nil {
		return "", fmt.Errorf("update admin password: %w", err)
	}
	return "Admin password updated", nil
}

func hashLegacyPasswords(db *gorm.DB) error {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return fmt.Errorf("fetch users: %w", err)
	}

	for _, user := range users {
		// Skip if already hashed (bcrypt hashes start with $2)
		if user.Password == "" || strings.HasPrefix(user.Password, "$2") {
			continue
		}

		hashedPassword, err := utils.HashPassword(user.Password)
		if err != nil {
			config.Log.WithError(err).WithField("email", user.Email).Warn("Failed to hash password")
			continue
		}
		if err := db.Model(&user).Update("password", hashedPassword).Error; err != nil {
			config.Log.WithError(err).WithField("email", user.Email).Warn("Failed to update password")
			continue
		}
		config.Log.WithField("email", user.Email).Info("Hashed legacy password")
	}
	return nil
}
