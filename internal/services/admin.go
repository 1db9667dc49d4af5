package services

import (
	"errors"

	"storepanel/internal/config"
	"storepanel/internal/models"

	"gorm.io/gorm"
)

type AdminService struct {
	db          *gorm.DB
	authService *AuthService
}

func NewAdminService(db *gorm.DB, authService *AuthService) *AdminService {
	return &AdminService{db: db, authService: authService}
}

type CreateAdminInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// CountAdmins returns the number of admin users in the store.
func (s *AdminService) CountAdmins() (int64, error) {
	var count int64
	if err := s.db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return 0, storageError(err)
	}
	return count, nil
}

// CreateAdmin creates a new admin user. When the store holds no admins
// at all the call needs no acting user and the new account is forced to
// super_admin (bootstrap exception); otherwise the acting user must be
// a super_admin.
func (s *AdminService) CreateAdmin(input CreateAdminInput, actingUser *models.AdminUser) (*models.AdminUser, error) {
	count, err := s.CountAdmins()
	if err != nil {
		return nil, err
	}

	if count == 0 {
		input.Role = models.RoleSuperAdmin
	} else {
		if err := RequireRole(actingUser, models.RoleSuperAdmin); err != nil {
			return nil, err
		}
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, newValidationError("Email, password and name are required")
	}
	if input.Role == "" {
		input.Role = models.RoleAdmin
	}
	if !input.Role.Valid() {
		return nil, newValidationError("Invalid role")
	}

	if validation := ValidatePassword(input.Password); !validation.IsValid {
		return nil, &ValidationError{Messages: validation.Errors}
	}

	var existing models.AdminUser
	err = s.db.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError(err)
	}

	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.AdminUser{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         input.Role,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, storageError(err)
	}

	user.Sanitize()
	return user, nil
}

// DeleteAdmin removes an admin user. Self-deletion is rejected
// regardless of role.
func (s *AdminService) DeleteAdmin(id string, actingUser *models.AdminUser) error {
	if err := RequireRole(actingUser, models.RoleSuperAdmin); err != nil {
		return err
	}

	if id == actingUser.ID {
		return ErrInvalidOperation
	}

	var user models.AdminUser
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storageError(err)
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return storageError(err)
	}
	return nil
}

// ListAdmins returns all admin users, newest first.
func (s *AdminService) ListAdmins(actingUser *models.AdminUser) ([]models.AdminUser, error) {
	if err := RequireRole(actingUser, models.RoleSuperAdmin); err != nil {
		return nil, err
	}

	var users []models.AdminUser
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, storageError(err)
	}

	for i := range users {
		users[i].Sanitize()
	}
	return users, nil
}

// UpdateProfile changes a user's name and email.
func (s *AdminService) UpdateProfile(userID, name, email string) (*models.AdminUser, error) {
	if name == "" || email == "" {
		return nil, newValidationError("Name and email are required")
	}

	// Check if email is taken by another user
	var existing models.AdminUser
	err := s.db.Where("email = ? AND id != ?", email, userID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError(err)
	}

	var user models.AdminUser
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}

	user.Name = name
	user.Email = email
	if err := s.db.Save(&user).Error; err != nil {
		return nil, storageError(err)
	}

	user.Sanitize()
	return &user, nil
}

// UpdatePassword changes a user's password after re-verifying the
// current one.
func (s *AdminService) UpdatePassword(userID, currentPassword, newPassword string) error {
	var user models.AdminUser
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storageError(err)
	}

	if !s.authService.VerifyPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 8 {
		return newValidationError("New password must be at least 8 characters long")
	}

	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.db.Save(&user).Error; err != nil {
		return storageError(err)
	}
	return nil
}

// EnsureBootstrapAdmin creates the configured super admin when the
// store is empty. Safe to call on every start.
func (s *AdminService) EnsureBootstrapAdmin(cfg *config.Config) error {
	if cfg.Bootstrap.Email == "" || cfg.Bootstrap.Password == "" {
		return nil
	}

	count, err := s.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	name := cfg.Bootstrap.Name
	if name == "" {
		name = "Administrator"
	}

	_, err = s.CreateAdmin(CreateAdminInput{
		Email:    cfg.Bootstrap.Email,
		Password: cfg.Bootstrap.Password,
		Name:     name,
	}, nil)
	return err
}
