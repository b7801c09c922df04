// Package billing computes parking fees.  The calculation is a pure
// function of the entry/exit instants and the spot class, so the payment
// stage stays deterministic and the pricing rules stay unit-testable.
package billing

import (
	"math"
	"time"

	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
)

// DefaultSurcharge is the peak-hour multiplier applied when the entry or
// exit instant falls inside a peak window.
const DefaultSurcharge = 1.5

// PeakWindow is a time-of-day interval [StartHour, EndHour) during which
// the surcharge applies.
type PeakWindow struct {
	StartHour int
	EndHour   int
}

// Contains reports whether the instant's hour falls inside the window.
func (w PeakWindow) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

// DefaultRates is the per-day rate table keyed by spot class, carried
// over from the campus pricing sheet.
func DefaultRates() map[model.SpotClass]float64 {
	return map[model.SpotClass]float64{
		model.ClassStandard:   3.00,
		model.ClassPriority:   8.00,
		model.ClassRestricted: 2.00,
	}
}

// DefaultPeakWindows returns the morning and evening rush intervals.
func DefaultPeakWindows() []PeakWindow {
	return []PeakWindow{
		{StartHour: 8, EndHour: 10},
		{StartHour: 17, EndHour: 19},
	}
}

// Calculator holds the pricing configuration.  It is immutable after
// construction and safe for concurrent use.
type Calculator struct {
	rates     map[model.SpotClass]float64
	windows   []PeakWindow
	surcharge float64
}

// NewCalculator builds a calculator.  Nil or empty tables fall back to
// the defaults so a partially configured deployment still prices every
// class.
func NewCalculator(rates map[model.SpotClass]float64, windows []PeakWindow, surcharge float64) *Calculator {
	if len(rates) == 0 {
		rates = DefaultRates()
	}
	if len(windows) == 0 {
		windows = DefaultPeakWindows()
	}
	if surcharge <= 0 {
		surcharge = DefaultSurcharge
	}
	return &Calculator{rates: rates, windows: windows, surcharge: surcharge}
}

// Rate returns the per-day rate for the class.  Unknown classes are
// priced as Standard.
func (c *Calculator) Rate(class model.SpotClass) float64 {
	if r, ok := c.rates[class]; ok {
		return r
	}
	return c.rates[model.ClassStandard]
}

// ComputeFee prices a stay: rate × billed days, where days is the
// elapsed time rounded up to whole 24-hour units with a minimum of one.
// A zero entry instant means the vehicle was never recorded entering; it
// is billed as a full 24-hour stay (minimum one unit), matching the
// long-standing settlement behavior.  If the entry or exit instant falls
// inside a peak window the surcharge multiplier applies, at most once.
// The result is rounded to the nearest cent.
func (c *Calculator) ComputeFee(class model.SpotClass, entry, exit time.Time) float64 {
	if entry.IsZero() {
		entry = exit.Add(-24 * time.Hour)
	}
	hours := exit.Sub(entry).Hours()
	units := math.Ceil(hours / 24)
	if units < 1 {
		units = 1
	}
	fee := c.Rate(class) * units
	if c.inPeak(entry) || c.inPeak(exit) {
		fee *= c.surcharge
	}
	return math.Round(fee*100) / 100
}

func (c *Calculator) inPeak(t time.Time) bool {
	for _, w := range c.windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
