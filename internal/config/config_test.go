package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salimi-my/campus-parking-spot-booking/internal/billing"
	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
)

func TestParseZones(t *testing.T) {
	zones := parseZones("A:20,B:15,C:10")
	assert.Equal(t, map[string]int{"A": 20, "B": 15, "C": 10}, zones)

	zones = parseZones(" A : 5 , bad, D:-1, E:0, :3, F:2 ")
	assert.Equal(t, map[string]int{"A": 5, "F": 2}, zones)
}

func TestParseRates(t *testing.T) {
	rates := parseRates("Standard:3.00,Priority:8.00,Restricted:2.00")
	assert.Equal(t, map[model.SpotClass]float64{
		model.ClassStandard:   3.00,
		model.ClassPriority:   8.00,
		model.ClassRestricted: 2.00,
	}, rates)

	// Unknown class names collapse onto Standard, malformed pairs skip.
	rates = parseRates("VIP:9.99,Priority:abc")
	assert.Equal(t, map[model.SpotClass]float64{model.ClassStandard: 9.99}, rates)
}

func TestParsePeaks(t *testing.T) {
	peaks := parsePeaks("8-10,17-19")
	assert.Equal(t, []billing.PeakWindow{
		{StartHour: 8, EndHour: 10},
		{StartHour: 17, EndHour: 19},
	}, peaks)

	// Inverted, out-of-range and malformed windows are skipped.
	peaks = parsePeaks("10-8,22-25,x-y,7")
	assert.Empty(t, peaks)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "parking_records.txt", cfg.RecordPath)
	assert.Equal(t, "RM", cfg.CurrencyPrefix)
	assert.Equal(t, 20, cfg.Zones["A"])
	assert.Equal(t, 15, cfg.Zones["B"])
	assert.Equal(t, 10, cfg.Zones["C"])
	assert.Equal(t, 50, cfg.QueueCapacity)
	assert.Equal(t, 500*time.Millisecond, cfg.Latencies.Booking)
	assert.Equal(t, 100*time.Millisecond, cfg.Latencies.Recorder)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.NotNil(t, cfg.Calculator())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PARKING_ZONES", "X:1")
	t.Setenv("QUEUE_CAPACITY", "7")
	t.Setenv("LATENCY_BOOKING", "10ms")
	t.Setenv("EVENTS_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, map[string]int{"X": 1}, cfg.Zones)
	assert.Equal(t, 7, cfg.QueueCapacity)
	assert.Equal(t, 10*time.Millisecond, cfg.Latencies.Booking)
	assert.True(t, cfg.EventsEnabled)
}

func TestRateLimitConfigClamping(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL, "TTL stretched to cover five refill intervals")
}
