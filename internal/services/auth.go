package services

import (
	"errors"
	"fmt"
	"time"

	"storepanel/internal/config"
	"storepanel/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultSessionLifetime = 7 * 24 * time.Hour

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// SessionLifetime returns the configured token lifetime, defaulting to
// seven days.
func (s *AuthService) SessionLifetime() time.Duration {
	if d, err := time.ParseDuration(s.cfg.JWT.ExpiresIn); err == nil && d > 0 {
		return d
	}
	return DefaultSessionLifetime
}

// Login verifies credentials and mints a session token. Unknown email
// and wrong password both return ErrInvalidCredentials so that callers
// cannot enumerate accounts.
func (s *AuthService) Login(email, password string) (string, *models.AdminUser, error) {
	var user models.AdminUser
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, storageError(err)
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	user.Sanitize()
	return token, &user, nil
}

// VerifySession validates a session token and resolves the user behind
// it. It returns nil for every failure mode (missing, malformed,
// expired, tampered, deleted account) without distinguishing them.
// The user is always re-read from the store; the role embedded in the
// token is a snapshot and is never trusted.
func (s *AuthService) VerifySession(tokenString string) *models.AdminUser {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret()), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil
	}

	var user models.AdminUser
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil
	}

	user.Sanitize()
	return &user
}

// generateToken mints a signed JWT for the user
func (s *AuthService) generateToken(user *models.AdminUser) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.SessionLifetime())

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
		"iss":  s.cfg.JWT.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret()))
}

func (s *AuthService) secret() string {
	if s.cfg.JWT.Secret != "" {
		return s.cfg.JWT.Secret
	}
	return "storepanel-default-secret-change-in-production"
}

// RequireRole enforces the role ordering admin < super_admin. A nil
// user or an unknown role never passes.
func RequireRole(user *models.AdminUser, minimum models.Role) error {
	if user == nil || !user.Role.AtLeast(minimum) {
		return ErrForbidden
	}
	return nil
}
