// Package ledger owns parking capacity and occupancy for every zone.
// It is the only mutable state shared across pipeline stages, so all
// reads and writes run under a single mutex; no caller ever touches the
// occupancy sets directly.
package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/salimi-my/campus-parking-spot-booking/internal/model"
)

// zoneEntry tracks one zone.  available is maintained incrementally so
// reads are O(1); the invariant available == capacity - len(occupied)
// holds whenever the ledger's mutex is released.
type zoneEntry struct {
	capacity  int
	occupied  map[int]struct{} // spot indices in use, 1..capacity
	available int
}

// Ledger is the lock-protected authority over zone capacity.  Reserve
// and Release for the same zone are serialized by the mutex, so two
// concurrent bookings can never be handed the same spot.
type Ledger struct {
	mu    sync.Mutex
	zones map[string]*zoneEntry
}

// New builds a ledger from a zone -> capacity table.  Zones with a
// non-positive capacity are dropped.
func New(capacities map[string]int) *Ledger {
	zones := make(map[string]*zoneEntry, len(capacities))
	for zone, cap := range capacities {
		if cap <= 0 {
			continue
		}
		zones[zone] = &zoneEntry{
			capacity:  cap,
			occupied:  make(map[int]struct{}, cap),
			available: cap,
		}
	}
	return &Ledger{zones: zones}
}

// HasCapacity reports whether the zone has at least one free spot.
// Callers must not rely on the answer staying true: Reserve re-checks
// inside the critical section.
func (l *Ledger) HasCapacity(zone string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	z, ok := l.zones[zone]
	return ok && z.available > 0
}

// Reserve assigns the lowest free spot index in the zone and returns it
// formatted as "<zone>-<index>".  It returns ok=false when the zone is
// unknown or full; exhaustion is an expected outcome, never an error.
func (l *Ledger) Reserve(zone string) (slot string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	z, found := l.zones[zone]
	if !found || z.available == 0 {
		return "", false
	}
	// Lowest unused index keeps spot assignment reproducible.
	for i := 1; i <= z.capacity; i++ {
		if _, taken := z.occupied[i]; !taken {
			z.occupied[i] = struct{}{}
			z.available--
			return FormatSlot(zone, i), true
		}
	}
	// Unreachable while the availability invariant holds.
	return "", false
}

// Release frees a previously reserved spot.  Releasing a spot that is
// not occupied, malformed, or out of range is a no-op, so double exits
// cannot push availability past capacity.
func (l *Ledger) Release(slot string) {
	zone, index, err := parseSlot(slot)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	z, ok := l.zones[zone]
	if !ok {
		return
	}
	if _, taken := z.occupied[index]; !taken {
		return
	}
	delete(z.occupied, index)
	z.available++
}

// Available returns the number of free spots in the zone (0 for unknown
// zones).
func (l *Ledger) Available(zone string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if z, ok := l.zones[zone]; ok {
		return z.available
	}
	return 0
}

// Capacity returns the fixed capacity of the zone (0 for unknown zones).
func (l *Ledger) Capacity(zone string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if z, ok := l.zones[zone]; ok {
		return z.capacity
	}
	return 0
}

// Snapshot returns the current state of every zone, sorted by zone name
// so the availability endpoint and the poller produce stable output.
func (l *Ledger) Snapshot() []model.ZoneStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ZoneStatus, 0, len(l.zones))
	for zone, z := range l.zones {
		out = append(out, model.ZoneStatus{
			Zone:      zone,
			Capacity:  z.capacity,
			Available: z.available,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zone < out[j].Zone })
	return out
}

// FormatSlot renders a spot identifier, e.g. FormatSlot("A", 15) == "A-15".
func FormatSlot(zone string, index int) string {
	return fmt.Sprintf("%s-%d", zone, index)
}

// parseSlot splits "A-15" into ("A", 15).  The zone name may itself
// contain dashes; only the last segment is the index.
func parseSlot(slot string) (zone string, index int, err error) {
	i := strings.LastIndex(slot, "-")
	if i <= 0 || i == len(slot)-1 {
		return "", 0, fmt.Errorf("malformed slot %q", slot)
	}
	n, err := strconv.Atoi(slot[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed slot %q: %w", slot, err)
	}
	return slot[:i], n, nil
}
