package models

import "time"

// OfflineSnapshot is a whole-state capture of the map's last-known viewport
// and markers, written opportunistically while online and read back for
// offline restoration. Snapshots are overwritten wholesale, never merged.
type OfflineSnapshot struct {
	CenterLatitude  float64   `json:"centerLatitude"`
	CenterLongitude float64   `json:"centerLongitude"`
	Zoom            int       `json:"zoom"`
	Markers         []Marker  `json:"markers"`
	LastUpdated     time.Time `json:"lastUpdated"`
}
