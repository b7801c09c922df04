package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
)

// offPeak returns an instant at 12:00, outside both default windows.
func offPeak(day int) time.Time {
	return time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC)
}

func TestOneHourStayChargesOneDay(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	entry := offPeak(2)
	fee := calc.ComputeFee(model.ClassStandard, entry, entry.Add(time.Hour))
	assert.Equal(t, 3.00, fee)
}

func TestTwentyFiveHourStayChargesTwoDays(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	entry := offPeak(2)
	fee := calc.ComputeFee(model.ClassStandard, entry, entry.Add(25*time.Hour))
	assert.Equal(t, 6.00, fee)
}

func TestRatesPerClass(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	entry := offPeak(2)
	exit := entry.Add(time.Hour)

	assert.Equal(t, 3.00, calc.ComputeFee(model.ClassStandard, entry, exit))
	assert.Equal(t, 8.00, calc.ComputeFee(model.ClassPriority, entry, exit))
	assert.Equal(t, 2.00, calc.ComputeFee(model.ClassRestricted, entry, exit))
}

func TestPeakSurchargeAppliedOnce(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	// Entry at 09:00 inside the 08:00-10:00 window, exit exactly 24h
	// later, also at 09:00.  One billed day, surcharge applied once.
	entry := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	fee := calc.ComputeFee(model.ClassStandard, entry, entry.Add(24*time.Hour))
	assert.Equal(t, 4.50, fee)
}

func TestPeakSurchargeOnExitOnly(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	entry := offPeak(2)
	exit := time.Date(2026, time.March, 2, 17, 30, 0, 0, time.UTC) // evening peak
	fee := calc.ComputeFee(model.ClassRestricted, entry, exit)
	assert.Equal(t, 3.00, fee) // 2.00 * 1.5
}

func TestMissingEntryBilledAsFullDay(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	// Never-entered vehicle: the backdated entry lands 24h earlier at
	// the same off-peak hour, so exactly one plain day is billed.
	fee := calc.ComputeFee(model.ClassStandard, time.Time{}, offPeak(5))
	assert.Equal(t, 3.00, fee)
}

func TestComputeFeeIsDeterministic(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	entry := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	exit := entry.Add(30 * time.Hour)

	first := calc.ComputeFee(model.ClassPriority, entry, exit)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, calc.ComputeFee(model.ClassPriority, entry, exit))
	}
}

func TestRoundingToCents(t *testing.T) {
	calc := NewCalculator(map[model.SpotClass]float64{model.ClassStandard: 3.33}, nil, 0)
	entry := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC) // peak
	fee := calc.ComputeFee(model.ClassStandard, entry, entry.Add(time.Hour))
	assert.Equal(t, 5.00, fee) // 3.33 * 1.5 = 4.995 -> 5.00
}

func TestUnknownClassPricedAsStandard(t *testing.T) {
	calc := NewCalculator(nil, nil, 0)
	entry := offPeak(2)
	fee := calc.ComputeFee(model.SpotClass("Motorbike"), entry, entry.Add(time.Hour))
	assert.Equal(t, 3.00, fee)
}

func TestPeakWindowBoundaries(t *testing.T) {
	w := PeakWindow{StartHour: 8, EndHour: 10}
	assert.True(t, w.Contains(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2026, 3, 2, 9, 59, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 3, 2, 7, 59, 0, 0, time.UTC)))
}
