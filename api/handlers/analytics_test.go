package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/civicpulse/civicpulse-api/api/handlers"
	"github.com/civicpulse/civicpulse-api/databases/mocks"
	"github.com/civicpulse/civicpulse-api/models"
)

func TestAnalytics_AnalyticsHandlerSuccess(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/analytics", nil)
	if err != nil {
		t.Fatal(err)
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	rdb := &mocks.ReportDatabase{}
	rdb.On("Find", mock.Anything, mock.Anything).Return([]models.Report{
		{Category: models.CategoryInfrastructure, Status: models.StatusOpen, Priority: models.PriorityMedium, CreatedAt: now},
		{Category: models.CategoryInfrastructure, Status: models.StatusResolved, Priority: models.PriorityLow, CreatedAt: now},
		{Category: models.CategoryEnvironmental, Status: models.StatusOpen, Priority: models.PriorityHigh, CreatedAt: now},
	}, nil)

	a := handlers.Analytics{RDB: rdb}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(a.AnalyticsHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var agg models.AnalyticsAggregate
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &agg))
	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, 2, agg.ByCategory[models.CategoryInfrastructure])
	assert.Equal(t, 1, agg.ByCategory[models.CategoryEnvironmental])
	assert.Len(t, agg.Trend, 7)
}

func TestAnalytics_AnalyticsHandlerCategoryFilter(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/analytics?category=environmental", nil)
	if err != nil {
		t.Fatal(err)
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	rdb := &mocks.ReportDatabase{}
	rdb.On("Find", mock.Anything, mock.Anything).Return([]models.Report{
		{Category: models.CategoryInfrastructure, Status: models.StatusOpen, CreatedAt: now},
		{Category: models.CategoryEnvironmental, Status: models.StatusOpen, CreatedAt: now},
	}, nil)

	a := handlers.Analytics{RDB: rdb}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(a.AnalyticsHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var agg models.AnalyticsAggregate
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &agg))
	assert.Equal(t, 1, agg.Total)
	assert.Equal(t, 1, agg.ByCategory[models.CategoryEnvironmental])
}
