package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_ZeroRateSplitsEvenly(t *testing.T) {
	sim, err := Simulate(dec("25000"), dec("5000"), dec("0"), 10)
	require.NoError(t, err)

	assertDecimal(t, "20000", sim.Financed)
	assertDecimal(t, "2000", sim.MonthlyPayment)
	assertDecimal(t, "20000", sim.TotalPaid)
	assertDecimal(t, "0", sim.TotalInterest)
	require.Len(t, sim.Table, 10)
	assertDecimal(t, "0", sim.Table[9].Balance)
}

func TestSimulate_FrenchAmortization(t *testing.T) {
	sim, err := Simulate(dec("10000"), dec("0"), dec("0.01"), 12)
	require.NoError(t, err)

	assertDecimal(t, "888.49", sim.MonthlyPayment)
	assertDecimal(t, "100", sim.Table[0].Interest)
	assertDecimal(t, "788.49", sim.Table[0].Principal)
	assertDecimal(t, "0", sim.Table[11].Balance)
	assert.True(t, sim.TotalInterest.IsPositive())
}

func TestSimulate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		price  string
		down   string
		rate   string
		months int
	}{
		{"no months", "10000", "0", "0.01", 0},
		{"too many months", "10000", "0", "0.01", MaxSimulationMonths + 1},
		{"down covers price", "10000", "10000", "0.01", 12},
		{"negative rate", "10000", "0", "-0.01", 12},
		{"negative down", "10000", "-1", "0.01", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simulate(dec(tt.price), dec(tt.down), dec(tt.rate), tt.months)
			assert.ErrorIs(t, err, ErrInvalidSimulation)
		})
	}
}
