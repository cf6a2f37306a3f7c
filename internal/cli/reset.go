package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ambidream/internal/db"
	"ambidream/internal/models"
	"ambidream/internal/security"
	"ambidream/internal/services"
)

// RunResetPasswordCommand replaces a user's password from the operator
// console. With a TTY it prompts for the new password without echo; when
// the prompt is unavailable or left empty it falls back to a generated
// temporary password and prints it.
func RunResetPasswordCommand(dbPath string, email string) error {
	normalizedEmail := services.NormalizeEmail(email)
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	var user models.User
	if err := database.Where("email = ?", normalizedEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	newPassword, generated, err := resolveNewPassword()
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	if err := database.Save(&user).Error; err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Printf("Password reset for %s\n", normalizedEmail)
	if generated {
		fmt.Printf("Temporary password: %s\n", newPassword)
	}
	return nil
}

func resolveNewPassword() (string, bool, error) {
	fmt.Print("New password (empty to generate): ")
	entered, err := readPasswordNoEcho(os.Stdin)
	fmt.Println()
	if err == nil {
		password := strings.TrimSpace(string(entered))
		if password != "" {
			if len(password) < 8 {
				return "", false, errors.New("password must be at least 8 characters")
			}
			return password, false, nil
		}
	}

	temporary, err := generateTemporaryPassword(12)
	if err != nil {
		return "", false, fmt.Errorf("generate temporary password: %w", err)
	}
	return temporary, true, nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	return security.RandomString(length, alphabet)
}
