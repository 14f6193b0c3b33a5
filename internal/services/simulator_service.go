package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/ledger"
	"github.com/sjperalta/dealership-api/internal/validation"
)

// SimulationInput is a financing simulation request. Price may come from a
// vehicle instead; the rate defaults to the configured one.
type SimulationInput struct {
	VehicleID   *uint    `json:"vehicle_id" form:"vehicle_id"`
	Price       *float64 `json:"price" form:"price"`
	DownPayment *float64 `json:"down_payment" form:"down_payment"`
	MonthlyRate *float64 `json:"monthly_rate" form:"monthly_rate"`
	Months      int      `json:"months" form:"months"`
}

// SimulatorService prices financing plans
type SimulatorService struct {
	vehicles *VehicleService
	settings *SettingService
}

func NewSimulatorService(vehicles *VehicleService, settings *SettingService) *SimulatorService {
	return &SimulatorService{vehicles: vehicles, settings: settings}
}

// Simulate runs an admin simulation; any vehicle may be priced.
func (s *SimulatorService) Simulate(ctx context.Context, input SimulationInput) (*ledger.Simulation, error) {
	return s.simulate(ctx, input, false)
}

// SimulatePublic runs a catalog simulation: only listed vehicles and the
// configured rate.
func (s *SimulatorService) SimulatePublic(ctx context.Context, input SimulationInput) (*ledger.Simulation, error) {
	input.MonthlyRate = nil
	return s.simulate(ctx, input, true)
}

func (s *SimulatorService) simulate(ctx context.Context, input SimulationInput, public bool) (*ledger.Simulation, error) {
	price := decimalFromPtr(input.Price)
	if input.VehicleID != nil && *input.VehicleID != 0 {
		find := s.vehicles.FindByID
		if public {
			find = s.vehicles.FindPublic
		}
		vehicle, err := find(ctx, *input.VehicleID)
		if err != nil {
			return nil, err
		}
		price = vehicle.Price
	}

	rate := s.settings.DefaultFinancingRate(ctx)
	if input.MonthlyRate != nil {
		rate = decimal.NewFromFloat(*input.MonthlyRate)
	}

	fields := map[string]string{}
	if !price.IsPositive() {
		fields["price"] = "El precio debe ser mayor que cero"
	}
	down := decimalFromPtr(input.DownPayment)
	if down.IsNegative() {
		fields["down_payment"] = "El pago inicial no puede ser negativo"
	} else if price.IsPositive() && down.GreaterThanOrEqual(price) {
		fields["down_payment"] = "El pago inicial debe ser menor que el precio"
	}
	if input.Months < 1 || input.Months > ledger.MaxSimulationMonths {
		fields["months"] = "El plazo debe estar entre 1 y 120 meses"
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromFloat(0.2)) {
		fields["monthly_rate"] = "La tasa mensual debe estar entre 0 y 0.2"
	}
	if len(fields) > 0 {
		return nil, &validation.Error{Fields: fields}
	}

	sim, err := ledger.Simulate(price, down, rate, input.Months)
	if errors.Is(err, ledger.ErrInvalidSimulation) {
		return nil, &validation.Error{Fields: map[string]string{"months": err.Error()}}
	}
	return sim, err
}
