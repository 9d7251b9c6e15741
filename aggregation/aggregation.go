// Package aggregation derives the analytics totals both rendering paths
// share. Aggregate is a pure function of the report set and the filter, so
// live and fallback views can never disagree on the numbers.
package aggregation

import (
	"time"

	"github.com/civicpulse/civicpulse-api/models"
)

const trendDays = 7

// Filter narrows the report set before aggregation. Zero values mean "all".
type Filter struct {
	From     *time.Time
	To       *time.Time
	Category models.Category
	Status   models.Status
	Priority models.Priority
}

// Matches reports whether a report passes the filter
func (f Filter) Matches(r models.Report) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Priority != "" && r.Priority != f.Priority {
		return false
	}
	created := r.CreatedAt.Time()
	if f.From != nil && created.Before(*f.From) {
		return false
	}
	if f.To != nil && created.After(*f.To) {
		return false
	}
	return true
}

// locationKey groups reports by city+region. Reports without a resolved
// city/region land in one bucket instead of being dropped.
func locationKey(l models.Location) string {
	switch {
	case l.City != "" && l.Region != "":
		return l.City + ", " + l.Region
	case l.City != "":
		return l.City
	case l.Region != "":
		return l.Region
	default:
		return "Unknown"
	}
}

// Aggregate computes totals, per-key breakdowns and the trailing 7-day trend
// for the filtered report set. The trend buckets by the report's creation
// date in loc's local time and zero-fills days with no reports.
func Aggregate(reports []models.Report, f Filter, now time.Time, loc *time.Location) models.AnalyticsAggregate {
	if loc == nil {
		loc = time.Local
	}

	agg := models.AnalyticsAggregate{
		ByCategory: map[models.Category]int{},
		ByStatus:   map[models.Status]int{},
		ByPriority: map[models.Priority]int{},
		ByLocation: map[string]int{},
	}

	trendCounts := map[string]int{}
	for _, r := range reports {
		if r.Deleted || !f.Matches(r) {
			continue
		}
		agg.Total++
		agg.ByCategory[r.Category]++
		agg.ByStatus[r.Status]++
		agg.ByPriority[r.Priority]++
		agg.ByLocation[locationKey(r.Location)]++
		trendCounts[r.CreatedAt.Time().In(loc).Format("2006-01-02")]++
	}

	day := now.In(loc)
	agg.Trend = make([]models.TrendPoint, trendDays)
	for i := 0; i < trendDays; i++ {
		d := day.AddDate(0, 0, i-(trendDays-1)).Format("2006-01-02")
		agg.Trend[i] = models.TrendPoint{Date: d, Count: trendCounts[d]}
	}

	return agg
}
