// Package markers converts heterogeneous report shapes into the single
// marker shape the map and analytics views share.
package markers

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/models"
)

// FromSubmission converts a form submission into a storable report. The UI
// category label maps to the storage vocabulary (unmapped labels resolve to
// other) and priority defaults to medium when absent. Coordinates stay
// unresolved if the form did not carry them; such reports are stored but
// never rendered as markers.
func FromSubmission(sub models.ReportSubmission, now time.Time) models.Report {
	priority := models.Priority(sub.Priority)
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
	default:
		priority = models.PriorityMedium
	}

	return models.Report{
		Category:    models.CategoryFromLabel(sub.Category),
		Description: sub.Description,
		Location: models.Location{
			Name:      sub.LocationName,
			Latitude:  sub.Latitude,
			Longitude: sub.Longitude,
		},
		PhotoURL:  sub.PhotoURL,
		Priority:  priority,
		Status:    models.StatusOpen,
		CreatedAt: primitive.NewDateTimeFromTime(now),
		UpdatedAt: primitive.NewDateTimeFromTime(now),
	}
}

// FromReport derives the marker for one report. The second return is false
// when the report carries no resolved coordinates; such reports are excluded
// from map rendering, never defaulted to an arbitrary point.
func FromReport(r models.Report) (models.Marker, bool) {
	if !r.Location.Resolved() {
		return models.Marker{}, false
	}

	label := r.Location.ResolvedName
	if label == "" {
		label = r.Location.Name
	}

	return models.Marker{
		ID:            r.ID.Hex(),
		Latitude:      *r.Location.Latitude,
		Longitude:     *r.Location.Longitude,
		Label:         label,
		CategoryLabel: r.Category.Label(),
		ColorKey:      r.Priority.ColorKey(),
		StatusKey:     string(r.Status),
	}, true
}

// Normalize converts a batch of reports into markers. Reports without
// coordinates are skipped with a diagnostic; one bad report never aborts the
// batch.
func Normalize(reports []models.Report) []models.Marker {
	out := make([]models.Marker, 0, len(reports))
	for _, r := range reports {
		m, ok := FromReport(r)
		if !ok {
			zap.S().Debugw("report has no resolved coordinates, skipping marker",
				"reportId", r.ID.Hex(),
				"locationName", r.Location.Name,
			)
			continue
		}
		out = append(out, m)
	}
	return out
}
