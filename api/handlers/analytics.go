package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/civicpulse/civicpulse-api/aggregation"
	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/databases"
	"github.com/civicpulse/civicpulse-api/models"
)

// Analytics handles aggregate analytics requests
type Analytics struct {
	RDB databases.ReportDatabase
}

// filterFromQuery builds an aggregation filter from request query params.
// Every filter is independently optional.
func filterFromQuery(r *http.Request) aggregation.Filter {
	q := r.URL.Query()
	f := aggregation.Filter{
		Category: models.Category(q.Get("category")),
		Status:   models.Status(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
	}
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			f.From = &t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			f.To = &end
		}
	}
	return f
}

// AnalyticsHandler computes the aggregate for the current filters
func (a Analytics) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	reports, err := a.RDB.Find(context.TODO(), bson.M{"deleted": bson.M{"$ne": true}})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	agg := aggregation.Aggregate(reports, filterFromQuery(r), time.Now(), time.Local)

	respB, err := json.Marshal(agg)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}
