package models

// TrendPoint is one calendar-day bucket in the 7-day trend series
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD, local time
	Count int    `json:"count"`
}

// AnalyticsAggregate holds totals and breakdowns derived from the filtered
// report set. It is recomputed on every change and never persisted. Both the
// live and the fallback rendering paths consume the same aggregate so the
// numbers never diverge between modes.
type AnalyticsAggregate struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"byCategory"`
	ByStatus   map[Status]int   `json:"byStatus"`
	ByPriority map[Priority]int `json:"byPriority"`
	ByLocation map[string]int   `json:"byLocation"`
	Trend      []TrendPoint     `json:"trend"`
}
