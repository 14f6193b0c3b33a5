package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/dealership-api/internal/models"
)

// Vehicle events
const (
	VehicleEventReserve = "reserve"
	VehicleEventRelease = "release"
	VehicleEventSell    = "sell"
	VehicleEventRestock = "restock"
)

// VehicleFSM wraps a vehicle with its state machine
type VehicleFSM struct {
	vehicle *models.Vehicle
	fsm     *fsm.FSM
}

// NewVehicleFSM creates a new vehicle state machine
func NewVehicleFSM(vehicle *models.Vehicle) *VehicleFSM {
	vfsm := &VehicleFSM{vehicle: vehicle}

	vfsm.fsm = fsm.NewFSM(
		vehicle.Status,
		fsm.Events{
			{Name: VehicleEventReserve, Src: []string{models.VehicleStatusAvailable}, Dst: models.VehicleStatusReserved},
			{Name: VehicleEventRelease, Src: []string{models.VehicleStatusReserved}, Dst: models.VehicleStatusAvailable},
			// Only sales move a vehicle to sold; a canceled sale restocks it.
			{Name: VehicleEventSell, Src: []string{models.VehicleStatusAvailable, models.VehicleStatusReserved}, Dst: models.VehicleStatusSold},
			{Name: VehicleEventRestock, Src: []string{models.VehicleStatusSold}, Dst: models.VehicleStatusAvailable},
		},
		fsm.Callbacks{},
	)

	return vfsm
}

// Reserve holds an available vehicle for a customer
func (v *VehicleFSM) Reserve(ctx context.Context) error {
	return v.fire(ctx, VehicleEventReserve)
}

// Release puts a reserved vehicle back on sale
func (v *VehicleFSM) Release(ctx context.Context) error {
	return v.fire(ctx, VehicleEventRelease)
}

// Sell marks the vehicle as sold
func (v *VehicleFSM) Sell(ctx context.Context) error {
	return v.fire(ctx, VehicleEventSell)
}

// Restock returns a sold vehicle to the inventory
func (v *VehicleFSM) Restock(ctx context.Context) error {
	return v.fire(ctx, VehicleEventRestock)
}

func (v *VehicleFSM) fire(ctx context.Context, event string) error {
	if !v.fsm.Can(event) {
		return fmt.Errorf("%w: %s desde %s", ErrInvalidTransition, event, v.fsm.Current())
	}
	if err := v.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s vehicle: %w", event, err)
	}
	v.vehicle.Status = v.fsm.Current()
	return nil
}

// Current returns the current state
func (v *VehicleFSM) Current() string {
	return v.fsm.Current()
}

// Can checks if a transition is possible
func (v *VehicleFSM) Can(event string) bool {
	return v.fsm.Can(event)
}

// TransitionTo fires the event that leads from the current status to target.
func (v *VehicleFSM) TransitionTo(ctx context.Context, target string) error {
	switch target {
	case models.VehicleStatusReserved:
		return v.Reserve(ctx)
	case models.VehicleStatusAvailable:
		if v.fsm.Current() == models.VehicleStatusSold {
			return v.Restock(ctx)
		}
		return v.Release(ctx)
	case models.VehicleStatusSold:
		return v.Sell(ctx)
	default:
		return fmt.Errorf("%w: estado desconocido %q", ErrInvalidTransition, target)
	}
}
