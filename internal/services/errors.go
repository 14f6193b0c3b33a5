package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/statemachine"
	"gorm.io/gorm"
)

// Common service errors
var (
	ErrNotFound            = errors.New("registro no encontrado")
	ErrValidation          = errors.New("datos inválidos")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrInactiveAccount     = errors.New("cuenta inactiva o suspendida")
	ErrInvalidToken        = errors.New("token inválido o expirado")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrDuplicate           = errors.New("registro duplicado")
	ErrInUse               = errors.New("el registro está en uso")
	ErrVehicleNotAvailable = errors.New("el vehículo no está disponible")
	ErrNotPromissory       = errors.New("la venta no es a pagaré")
	ErrSaleCanceled        = errors.New("la venta está cancelada")
	ErrInvalidAmount       = errors.New("monto inválido")
	ErrAlreadyPaidOff      = errors.New("la deuda ya está saldada")
	ErrInvalidImage        = errors.New("imagen inválida")
	ErrEmailDisabled       = errors.New("el envío de correos no está configurado")
)

// translate maps repository and state machine errors to service errors.
// Messages carried by the original error are kept.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
	case errors.Is(err, repository.ErrStaleStatus):
		return fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	case errors.Is(err, statemachine.ErrInvalidTransition):
		return fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	default:
		return err
	}
}

// captureError reports a tolerated failure to Sentry, using the request hub when present.
func captureError(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
