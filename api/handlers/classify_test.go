package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse-api/api/handlers"
	"github.com/civicpulse/civicpulse-api/classifier"
	"github.com/civicpulse/civicpulse-api/models"
)

func instantClassifier(failureRate float64) *classifier.Classifier {
	return classifier.New(42,
		classifier.WithFailureRate(failureRate),
		classifier.WithSleep(func(context.Context, time.Duration) {}),
	)
}

func TestClassify_ClassifyHandlerSuccess(t *testing.T) {
	body := `{"text": "dangerous pothole near the school"}`
	req, err := http.NewRequest("POST", "/api/v1/classify", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Classify{Classifier: instantClassifier(0)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ClassifyHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result models.ClassificationResult
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, models.LabelSafetyIssue, result.Category)
	assert.False(t, result.Fallback)
	assert.Greater(t, result.Confidence, 0.6)
}

func TestClassify_ClassifyHandlerAssistantFailureFallsBack(t *testing.T) {
	body := `{"text": "dangerous pothole near the school"}`
	req, err := http.NewRequest("POST", "/api/v1/classify", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Classify{Classifier: instantClassifier(1)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ClassifyHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result models.ClassificationResult
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, models.LabelSafetyIssue, result.Category)
	assert.True(t, result.Fallback)
}

func TestClassify_ClassifyHandlerEmptyText(t *testing.T) {
	body := `{"text": "   "}`
	req, err := http.NewRequest("POST", "/api/v1/classify", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Classify{Classifier: instantClassifier(0)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ClassifyHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error": "text is required"}`, rr.Body.String())
}

func TestClassify_ClassifyHandlerInvalidBody(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/classify", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}

	c := handlers.Classify{Classifier: instantClassifier(0)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ClassifyHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
