package services

import (
	"context"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo}
}

func (s *NotificationService) FindByUser(ctx context.Context, userID uint, query *repository.ListQuery) ([]models.Notification, int64, error) {
	return s.repo.FindByUser(ctx, userID, query)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead marks one notification of userID as read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uint) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translate(err, "notificación")
	}
	if notification.UserID != userID {
		return ErrNotFound
	}
	if notification.IsRead() {
		return nil
	}
	notification.MarkAsRead()
	return s.repo.Update(ctx, notification)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) NotifyUser(ctx context.Context, userID uint, title, message, notifType string) error {
	return s.repo.Create(ctx, &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: notifType,
	})
}

// NotifyAdmins creates the notification for every active admin
func (s *NotificationService) NotifyAdmins(ctx context.Context, title, message, notifType string) error {
	admins, err := s.userRepo.FindAdmins(ctx)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := s.NotifyUser(ctx, admin.ID, title, message, notifType); err != nil {
			logger.Warn("Failed to notify admin", "user_id", admin.ID, "type", notifType, "error", err)
		}
	}
	return nil
}
