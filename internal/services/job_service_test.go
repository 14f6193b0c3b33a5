package services

import (
	"testing"

	"github.com/sjperalta/dealership-api/internal/events"
	"github.com/sjperalta/dealership-api/internal/jobs"
	"github.com/stretchr/testify/assert"
)

func TestJobService_GetStatus(t *testing.T) {
	worker := jobs.NewWorker(1)
	defer worker.Shutdown()

	t.Run("nothing configured", func(t *testing.T) {
		svc := NewJobService(worker, NewEmailService(nil, "", ""), NewEventBus(events.NoopPublisher{}, worker),
			NewAdCopyService(nil, nil, "", "", ""))

		status := svc.GetStatus()
		assert.Empty(t, status.EmailProvider)
		assert.False(t, status.EventsEnabled)
		assert.False(t, status.AdCopyAPI)
		assert.Equal(t, 0, status.Worker.ActiveJobs)
	})

	t.Run("integrations live", func(t *testing.T) {
		publisher := events.NewKafkaPublisher([]string{"localhost:9092"}, "dealership")
		defer publisher.Close()
		adCopy := NewAdCopyService(nil, nil, "https://llm.local/v1/chat/completions", "key", "")
		defer adCopy.Close()

		svc := NewJobService(worker, NewEmailService(&recordingMailer{}, "", ""), NewEventBus(publisher, worker), adCopy)

		status := svc.GetStatus()
		assert.Equal(t, "recording", status.EmailProvider)
		assert.True(t, status.EventsEnabled)
		assert.True(t, status.AdCopyAPI)
	})
}
