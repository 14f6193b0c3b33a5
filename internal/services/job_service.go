package services

import (
	"github.com/sjperalta/dealership-api/internal/events"
	"github.com/sjperalta/dealership-api/internal/jobs"
)

// SystemStatus reports the background worker and which integrations are live.
type SystemStatus struct {
	Worker        jobs.WorkerStats `json:"worker"`
	EmailProvider string           `json:"email_provider"`
	EventsEnabled bool             `json:"events_enabled"`
	AdCopyAPI     bool             `json:"ad_copy_api"`
}

type JobService struct {
	worker *jobs.Worker
	email  *EmailService
	bus    *EventBus
	adCopy *AdCopyService
}

func NewJobService(worker *jobs.Worker, email *EmailService, bus *EventBus, adCopy *AdCopyService) *JobService {
	return &JobService{worker: worker, email: email, bus: bus, adCopy: adCopy}
}

func (s *JobService) GetStatus() SystemStatus {
	status := SystemStatus{
		Worker:    s.worker.GetStats(),
		AdCopyAPI: s.adCopy != nil && s.adCopy.client != nil,
	}
	if s.email != nil && s.email.Enabled() {
		status.EmailProvider = s.email.mailer.Name()
	}
	if s.bus != nil && s.bus.publisher != nil {
		_, noop := s.bus.publisher.(events.NoopPublisher)
		status.EventsEnabled = !noop
	}
	return status
}
