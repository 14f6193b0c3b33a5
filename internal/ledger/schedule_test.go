package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	jan31 := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 29, 10, 0, 0, 0, time.UTC), AddMonths(jan31, 1))
	assert.Equal(t, time.Date(2024, time.March, 31, 10, 0, 0, 0, time.UTC), AddMonths(jan31, 2))
	assert.Equal(t, time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC), AddMonths(jan31, 12))
}

func TestSchedule_Statuses(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)
	view := Compute(6, dec("500"), amounts("600", "400"))

	rows := Schedule(start, view, now)
	require.Len(t, rows, 6)

	assert.Equal(t, InstallmentPaid, rows[0].Status)
	assert.Equal(t, InstallmentPaid, rows[1].Status)
	// April and May are past due with only two installments covered.
	assert.Equal(t, InstallmentOverdue, rows[2].Status)
	assert.Equal(t, InstallmentOverdue, rows[3].Status)
	assert.Equal(t, InstallmentPending, rows[4].Status)
	assert.Equal(t, 2, OverdueCount(rows))
	assert.Equal(t, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), rows[0].DueDate)
}

func TestSchedule_NextInstallment(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	view := Compute(3, dec("100"), nil)

	rows := Schedule(start, view, now)

	assert.Equal(t, InstallmentNext, rows[0].Status)
	assert.Equal(t, InstallmentPending, rows[1].Status)
}

func TestSchedule_PaidOffMarksEverything(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	view := Compute(4, dec("100"), amounts("50", "350"))

	for _, row := range Schedule(start, view, now) {
		assert.Equal(t, InstallmentPaid, row.Status)
	}
}
