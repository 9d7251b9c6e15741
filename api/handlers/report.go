package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/databases"
	"github.com/civicpulse/civicpulse-api/geocode"
	"github.com/civicpulse/civicpulse-api/markers"
	"github.com/civicpulse/civicpulse-api/models"
)

// Report handles report-related requests
type Report struct {
	RDB            databases.ReportDatabase
	Hub            *Hub
	Geo            *geocode.Client
	MinDescription int
}

// PaginatedResponse holds the structure for paginated responses
type PaginatedResponse struct {
	Page       int             `json:"page"`
	TotalCount int64           `json:"totalCount"`
	Data       []models.Report `json:"data"`
}

// CreateReportHandler creates a new report from a form submission
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var sub models.ReportSubmission

	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	minLen := re.MinDescription
	if minLen <= 0 {
		minLen = 10
	}
	if len(sub.Description) < minLen {
		config.ErrorStatus("description too short", http.StatusBadRequest, w,
			fmt.Errorf("description must be at least %d characters", minLen))
		return
	}

	report := markers.FromSubmission(sub, time.Now())
	report.ID = primitive.NewObjectID()

	// best effort: resolve a place name when the form carried no coordinates.
	// A miss leaves the report storable but unrenderable as a marker.
	if !report.Location.Resolved() && report.Location.Name != "" && re.Geo != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if place, err := re.Geo.Search(ctx, report.Location.Name); err == nil {
			report.Location.Latitude = &place.Latitude
			report.Location.Longitude = &place.Longitude
			report.Location.ResolvedName = place.DisplayName
			report.Location.City = place.City
			report.Location.Region = place.Region
		} else {
			zap.S().Debugw("geocode resolve skipped", "name", report.Location.Name, "error", err)
		}
	}

	if _, err := re.RDB.InsertOne(context.Background(), report); err != nil {
		config.ErrorStatus("failed to create report", http.StatusInternalServerError, w, err)
		return
	}

	if re.Hub != nil {
		re.Hub.BroadcastReport("report_created", report)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Report created successfully",
		"id":      report.ID.Hex(),
	})
}

// ReportsHandler returns a filtered, paginated report list
func (re Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf("limit not set, using default of %v, err: %v", 10, err)
		Limit = 10
	}
	limit64 := int64(Limit)
	Page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		Page = 0
	}
	skip64 := int64(Page * Limit)

	filter := bson.M{"deleted": bson.M{"$ne": true}}
	if c := r.URL.Query().Get("category"); c != "" {
		filter["category"] = c
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		filter["priority"] = p
	}

	totalCount, err := re.RDB.CountDocuments(context.TODO(), filter)
	if err != nil {
		config.ErrorStatus("failed to get total count of reports", http.StatusInternalServerError, w, err)
		return
	}

	sortOpt := bson.D{{Key: "createdAt", Value: -1}}
	dbResp, err := re.RDB.Find(context.TODO(), filter, &options.FindOptions{Limit: &limit64, Skip: &skip64, Sort: sortOpt})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Report{}
	}

	paginatedResponse := PaginatedResponse{
		Page:       Page,
		TotalCount: totalCount,
		Data:       dbResp,
	}

	respB, err := json.Marshal(paginatedResponse)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}

// ReportByIDHandler retrieves a report by its ID
func (re Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("invalid report ID", http.StatusBadRequest, w, err)
		return
	}

	report, err := re.RDB.FindOne(context.Background(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to find report", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}

// UpdateReportStatusHandler updates the status of a report (moderator action)
func (re Report) UpdateReportStatusHandler(w http.ResponseWriter, r *http.Request) {
	re.updateField(w, r, "status", func(v string) bool {
		switch models.Status(v) {
		case models.StatusOpen, models.StatusInProgress, models.StatusResolved, models.StatusClosed:
			return true
		}
		return false
	})
}

// UpdateReportPriorityHandler updates the priority of a report (moderator action)
func (re Report) UpdateReportPriorityHandler(w http.ResponseWriter, r *http.Request) {
	re.updateField(w, r, "priority", func(v string) bool {
		switch models.Priority(v) {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
			return true
		}
		return false
	})
}

func (re Report) updateField(w http.ResponseWriter, r *http.Request, field string, valid func(string) bool) {
	reportID := mux.Vars(r)["report_id"]

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("invalid report ID", http.StatusBadRequest, w, err)
		return
	}

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	value, ok := body[field]
	if !ok || !valid(value) {
		config.ErrorStatus("invalid "+field+" value", http.StatusBadRequest, w,
			fmt.Errorf("unknown %s: %q", field, value))
		return
	}

	update := bson.M{
		field:       value,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}
	err = re.RDB.UpdateOne(context.Background(), bson.M{"_id": rID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update report", http.StatusInternalServerError, w, err)
		return
	}

	if re.Hub != nil {
		if report, err := re.RDB.FindOne(context.Background(), bson.M{"_id": rID}); err == nil {
			re.Hub.BroadcastReport("report_updated", *report)
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Report updated successfully"}`))
}

// UpvoteReportHandler increments the report's upvote counter
func (re Report) UpvoteReportHandler(w http.ResponseWriter, r *http.Request) {
	re.vote(w, r, "upvotes")
}

// DownvoteReportHandler increments the report's downvote counter
func (re Report) DownvoteReportHandler(w http.ResponseWriter, r *http.Request) {
	re.vote(w, r, "downvotes")
}

// vote counters are increment-only; there is no un-vote
func (re Report) vote(w http.ResponseWriter, r *http.Request, field string) {
	reportID := mux.Vars(r)["report_id"]

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("invalid report ID", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{
		"$inc": bson.M{field: 1},
		"$set": bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())},
	}
	err = re.RDB.UpdateOne(context.Background(), bson.M{"_id": rID}, update)
	if err != nil {
		config.ErrorStatus("failed to record vote", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Vote recorded"}`))
}

// DeleteReportHandler soft-deletes a report; reports are never destroyed
func (re Report) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("invalid report ID", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"deleted":   true,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	err = re.RDB.UpdateOne(context.Background(), bson.M{"_id": rID}, update)
	if err != nil {
		config.ErrorStatus("failed to delete report", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Report deleted successfully"}`))
}
