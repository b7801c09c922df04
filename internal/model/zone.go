package model

// ZoneStatus is a read-only snapshot of one zone's occupancy, produced
// by the ledger for the availability endpoint and the poller.
//
// Fields:
//
//	Zone      – zone identifier (e.g. "A").
//	Capacity  – fixed number of spots in the zone.
//	Available – spots currently free.
type ZoneStatus struct {
	Zone      string `json:"zone"`
	Capacity  int    `json:"capacity"`
	Available int    `json:"available"`
}
