package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRecordTotalValue(t *testing.T) {
	order := OrderRecord{
		LaborValue:  500.00,
		PartsValue:  200.00,
		TravelValue: 50.00,
		ThirdParty:  30.00,
		OtherValue:  20.00,
	}
	assert.InDelta(t, 800.00, order.TotalValue(), 0.001)
}

func TestOrderRecordVehicleLabel(t *testing.T) {
	order := OrderRecord{Device: "GOL", DeviceModel: "ABC1D23"}
	assert.Equal(t, "GOL (ABC1D23)", order.VehicleLabel())
}

func TestParsePeriod(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := ParsePeriod("2025-06")
		require.NoError(t, err)
		assert.Equal(t, 2025, p.Year)
		assert.Equal(t, time.June, p.Month)
		assert.Equal(t, "2025-06", p.String())
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := ParsePeriod("2025-13")
		assert.Error(t, err)
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := ParsePeriod("06/2025")
		assert.Error(t, err)
	})
}

func TestPeriodContains(t *testing.T) {
	p := Period{Year: 2025, Month: time.June}

	assert.True(t, p.Contains(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Time{}), "zero time belongs to no period")
}
