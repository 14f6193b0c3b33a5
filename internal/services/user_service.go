package services

import (
	"context"
	"strings"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
)

// UserService manages console accounts (admins and sellers)
type UserService struct {
	repo     repository.UserRepository
	auditSvc *AuditService
}

func NewUserService(repo repository.UserRepository, auditSvc *AuditService) *UserService {
	return &UserService{
		repo:     repo,
		auditSvc: auditSvc,
	}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	return user, translate(err, "usuario")
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) Create(ctx context.Context, form validation.UserForm) (*models.User, error) {
	if err := validation.ValidateUser(form, true).Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             normalizeEmail(form.Email),
		FullName:          strings.TrimSpace(form.FullName),
		Phone:             validation.NormalizePhone(form.Phone),
		Role:              form.Role,
		Status:            models.StatusActive,
		EncryptedPassword: hashedPassword,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, translate(err, "usuario")
	}

	s.auditSvc.Log(ctx, models.AuditActionCreate, "User", user.ID, "Usuario creado: %s (%s) - Rol: %s", user.FullName, user.Email, user.Role)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, form validation.UserForm) (*models.User, error) {
	if err := validation.ValidateUser(form, false).Err(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "usuario")
	}

	user.Email = normalizeEmail(form.Email)
	user.FullName = strings.TrimSpace(form.FullName)
	user.Phone = validation.NormalizePhone(form.Phone)
	user.Role = form.Role
	if form.Password != "" {
		hashedPassword, err := HashPassword(form.Password)
		if err != nil {
			return nil, err
		}
		user.EncryptedPassword = hashedPassword
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, translate(err, "usuario")
	}

	s.auditSvc.Log(ctx, models.AuditActionUpdate, "User", user.ID, "Usuario actualizado: %s", user.Email)
	return user, nil
}

// ToggleStatus activates or deactivates an account. Users cannot deactivate themselves.
func (s *UserService) ToggleStatus(ctx context.Context, id uint) (*models.User, error) {
	if actor, ok := ActorFrom(ctx); ok && actor.UserID == id {
		return nil, &validation.Error{Fields: map[string]string{"status": "No puedes desactivar tu propia cuenta"}}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "usuario")
	}
	if user.IsActive() {
		user.Status = models.StatusInactive
	} else {
		user.Status = models.StatusActive
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, models.AuditActionStatus, "User", id, "Estado cambiado a %s", user.Status)
	return user, nil
}

// ChangePassword changes the password of userID after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return translate(err, "usuario")
	}
	if !VerifyPassword(currentPassword, user.EncryptedPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return &validation.Error{Fields: map[string]string{"new_password": "La contraseña debe tener al menos 8 caracteres"}}
	}

	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hashedPassword
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, models.AuditActionUpdate, "User", userID, "Contraseña actualizada por el usuario")
	return nil
}
