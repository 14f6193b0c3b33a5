package statemachine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/sjperalta/dealership-api/internal/models"
)

// ErrInvalidTransition is returned when an event is not allowed from the current state.
var ErrInvalidTransition = errors.New("transición de estado no permitida")

// Sale events
const (
	SaleEventComplete = "complete"
	SaleEventCancel   = "cancel"
)

// SaleFSM wraps a sale with its state machine
type SaleFSM struct {
	sale *models.Sale
	fsm  *fsm.FSM
}

// NewSaleFSM creates a new sale state machine
func NewSaleFSM(sale *models.Sale) *SaleFSM {
	sfsm := &SaleFSM{sale: sale}

	sfsm.fsm = fsm.NewFSM(
		sale.Status,
		fsm.Events{
			// pending → completed
			{Name: SaleEventComplete, Src: []string{models.SaleStatusPending}, Dst: models.SaleStatusCompleted},

			// pending/completed → canceled
			{Name: SaleEventCancel, Src: []string{models.SaleStatusPending, models.SaleStatusCompleted}, Dst: models.SaleStatusCanceled},
		},
		fsm.Callbacks{
			"enter_" + models.SaleStatusCompleted: func(_ context.Context, e *fsm.Event) {
				now := time.Now()
				sfsm.sale.CompletedAt = &now
			},
			"enter_" + models.SaleStatusCanceled: func(_ context.Context, e *fsm.Event) {
				now := time.Now()
				sfsm.sale.CanceledAt = &now
				if len(e.Args) > 0 {
					if reason, ok := e.Args[0].(string); ok && reason != "" {
						sfsm.sale.CancelReason = &reason
					}
				}
			},
		},
	)

	return sfsm
}

// Complete transitions the sale to completed
func (s *SaleFSM) Complete(ctx context.Context) error {
	return s.fire(ctx, SaleEventComplete)
}

// Cancel transitions the sale to canceled, recording the reason
func (s *SaleFSM) Cancel(ctx context.Context, reason string) error {
	return s.fire(ctx, SaleEventCancel, reason)
}

func (s *SaleFSM) fire(ctx context.Context, event string, args ...interface{}) error {
	if !s.fsm.Can(event) {
		return fmt.Errorf("%w: %s desde %s", ErrInvalidTransition, event, s.fsm.Current())
	}
	if err := s.fsm.Event(ctx, event, args...); err != nil {
		return fmt.Errorf("failed to %s sale: %w", event, err)
	}
	s.sale.Status = s.fsm.Current()
	return nil
}

// Current returns the current state
func (s *SaleFSM) Current() string {
	return s.fsm.Current()
}

// Can checks if a transition is possible
func (s *SaleFSM) Can(event string) bool {
	return s.fsm.Can(event)
}
