package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"seatfinder/internal/models"
	"seatfinder/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for accounts and authentication.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterUser validates the sign-up input, hashes the password with
// bcrypt and creates the account. Duplicate username/email detection is
// case-insensitive and reported per field by the repository.
func (s *AuthService) RegisterUser(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, validationErr("input", "all fields are required")
	}
	if len(username) < 3 {
		return nil, validationErr("username", "must be at least 3 characters long")
	}
	if len(password) < 6 {
		return nil, validationErr("password", "must be at least 6 characters long")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, validationErr("email", "must be a valid email address")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
// Unknown username and wrong password both come back as
// ErrInvalidCredentials; the caller cannot tell which failed.
func (s *AuthService) LoginUser(username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return "", nil, fmt.Errorf("failed to record login: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetProfile returns the account for the given user ID.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile changes the email and/or password. Empty arguments leave
// the corresponding field untouched.
func (s *AuthService) UpdateProfile(userID, email, newPassword string) error {
	if email == "" && newPassword == "" {
		return validationErr("input", "nothing to update")
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
			return validationErr("email", "must be a valid email address")
		}
		if err := s.userRepo.UpdateEmail(userID, email); err != nil {
			return err
		}
	}
	if newPassword != "" {
		if len(newPassword) < 6 {
			return validationErr("password", "must be at least 6 characters long")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(userID, string(hashed)); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAccount removes the account after re-verifying the password.
// The user's shortlist entries are deleted in the same transaction.
func (s *AuthService) DeleteAccount(userID, password string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return s.userRepo.Delete(userID)
}
