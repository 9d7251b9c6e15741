package models

// Marker is the map-renderable record derived from a Report. Markers are
// recomputed from the report collection and never persisted on their own,
// except wholesale inside an OfflineSnapshot.
type Marker struct {
	ID            string        `json:"id"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	Label         string        `json:"label"`
	CategoryLabel CategoryLabel `json:"category"`
	ColorKey      string        `json:"colorKey"`
	StatusKey     string        `json:"statusKey"`
}
