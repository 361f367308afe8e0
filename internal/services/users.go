package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/bluefin-crm/internal/auth"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/types"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 6

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = types.Validation("Invalid email or password")

// SignupInput is the signup form.
type SignupInput struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// Signup registers a user with a hashed password.
func Signup(db *gorm.DB, in SignupInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, types.Validation("Name and email are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, types.Validation("Passwords do not match")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, types.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{Email: email, Name: name, Password: hash}

	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return types.Validation("Email already exists")
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials. A legacy plaintext password is replaced by
// its hash once it has matched.
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.TrimSpace(email)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, upgrade := auth.CheckPassword(user.Password, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if upgrade {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := db.Model(&user).Update("password", hash).Error; err != nil {
			return nil, fmt.Errorf("failed to upgrade password: %w", err)
		}
		user.Password = hash
	}
	return &user, nil
}

// GetUser loads a user by id.
func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &user, nil
}
