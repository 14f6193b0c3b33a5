package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry for the actor in ctx. Failures are logged
// and never fail the audited operation. A nil service is a no-op.
func (s *AuditService) Log(ctx context.Context, action, entity string, entityID uint, details string, args ...any) {
	if s == nil {
		return
	}
	if len(args) > 0 {
		details = fmt.Sprintf(details, args...)
	}
	entry := &models.AuditLog{
		UserID:   actorID(ctx),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	if actor, ok := ActorFrom(ctx); ok {
		entry.IPAddress = actor.IP
		entry.UserAgent = truncate(actor.UserAgent, 255)
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Error("Failed to write audit log", "action", action, "entity", entity, "entity_id", entityID, "error", err)
	}
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, query)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
