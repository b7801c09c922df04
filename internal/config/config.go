// Package config loads application configuration from environment
// variables.  Each concern lives in its own file (core settings here,
// redis.go, ratelimit.go, cache.go) and every value has a default, so a
// bare environment still starts a working facility.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/salimi-my/campus-parking-spot-booking/internal/billing"
	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
	"github.com/salimi-my/campus-parking-spot-booking/internal/pipeline"
)

// Config holds all runtime configuration values.  The types reflect how
// the values are used: maps for the zone and rate tables, durations for
// latencies and timeouts.
type Config struct {
	Env             string                        // application environment (e.g. "dev", "prod")
	Port            string                        // HTTP port to listen on
	RecordPath      string                        // append-only durable record file
	CurrencyPrefix  string                        // prefix on formatted fees, e.g. "RM"
	Zones           map[string]int                // zone -> capacity table
	Rates           map[model.SpotClass]float64   // spot class -> per-day rate
	PeakWindows     []billing.PeakWindow          // surcharge intervals
	Surcharge       float64                       // peak multiplier
	QueueCapacity   int                           // shared bound for every pipeline queue
	Latencies       pipeline.StageLatencies       // simulated per-stage processing cost
	ShutdownTimeout time.Duration                 // per-stage wait during shutdown
	PollInterval    time.Duration                 // availability poller period (0 disables)
	TelemetryBuffer int                           // telemetry bus capacity
	EventsEnabled   bool                          // publish settlement events to the broker
	ConsumerEnabled bool                          // run the settlement event consumer
}

// Load reads configuration from the environment, falling back to the
// campus defaults for anything unset.
func Load() Config {
	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		RecordPath:     envStr("RECORD_FILE", "parking_records.txt"),
		CurrencyPrefix: envStr("CURRENCY_PREFIX", "RM"),
		Zones:          parseZones(envStr("PARKING_ZONES", "A:20,B:15,C:10")),
		Rates:          parseRates(envStr("PARKING_RATES", "Standard:3.00,Priority:8.00,Restricted:2.00")),
		PeakWindows:    parsePeaks(envStr("PEAK_WINDOWS", "8-10,17-19")),
		Surcharge:      envFloat("PEAK_SURCHARGE", billing.DefaultSurcharge),
		QueueCapacity:  envInt("QUEUE_CAPACITY", 50),
		Latencies: pipeline.StageLatencies{
			Booking:   envDur("LATENCY_BOOKING", 500*time.Millisecond),
			EntryGate: envDur("LATENCY_ENTRY", 300*time.Millisecond),
			ExitGate:  envDur("LATENCY_EXIT", 300*time.Millisecond),
			Payment:   envDur("LATENCY_PAYMENT", 400*time.Millisecond),
			Recorder:  envDur("LATENCY_RECORDER", 100*time.Millisecond),
		},
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 2*time.Second),
		PollInterval:    envDur("ZONE_POLL_INTERVAL", time.Second),
		TelemetryBuffer: envInt("TELEMETRY_BUFFER", 256),
		EventsEnabled:   envBool("EVENTS_ENABLED", false),
		ConsumerEnabled: envBool("EVENTS_CONSUMER_ENABLED", false),
	}
}

// Calculator builds the fee calculator from the configured rate table,
// peak windows and surcharge.
func (c Config) Calculator() *billing.Calculator {
	return billing.NewCalculator(c.Rates, c.PeakWindows, c.Surcharge)
}

// parseZones turns "A:20,B:15" into a capacity table.  Malformed pairs
// are skipped.
func parseZones(s string) map[string]int {
	out := map[string]int{}
	for _, part := range strings.Split(s, ",") {
		name, capStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(capStr))
		if err != nil || n <= 0 || name == "" {
			continue
		}
		out[strings.TrimSpace(name)] = n
	}
	return out
}

// parseRates turns "Standard:3.00,Priority:8.00" into a rate table.
func parseRates(s string) map[model.SpotClass]float64 {
	out := map[model.SpotClass]float64{}
	for _, part := range strings.Split(s, ",") {
		name, rateStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(rateStr), 64)
		if err != nil || r < 0 {
			continue
		}
		out[model.ParseSpotClass(strings.TrimSpace(name))] = r
	}
	return out
}

// parsePeaks turns "8-10,17-19" into peak windows.  Windows with an end
// at or before the start are skipped.
func parsePeaks(s string) []billing.PeakWindow {
	var out []billing.PeakWindow
	for _, part := range strings.Split(s, ",") {
		startStr, endStr, ok := strings.Cut(strings.TrimSpace(part), "-")
		if !ok {
			continue
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(startStr))
		end, err2 := strconv.Atoi(strings.TrimSpace(endStr))
		if err1 != nil || err2 != nil || start < 0 || end > 24 || end <= start {
			continue
		}
		out = append(out, billing.PeakWindow{StartHour: start, EndHour: end})
	}
	return out
}

// Shared env helpers used by every config file in this package.

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
