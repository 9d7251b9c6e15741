package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse-api/models"
)

func TestNew(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := New()

	assert.NotEmpty(t, conf)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "test", conf.DatabaseName)
}

func TestNewMinDescriptionDefault(t *testing.T) {
	os.Unsetenv("REPORT_MIN_DESCRIPTION")
	conf := New()

	assert.Equal(t, 10, conf.MinDescription)
}

func TestNewMinDescriptionFromEnv(t *testing.T) {
	os.Setenv("REPORT_MIN_DESCRIPTION", "25")
	defer os.Unsetenv("REPORT_MIN_DESCRIPTION")
	conf := New()

	assert.Equal(t, 25, conf.MinDescription)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error it borked", resp.Response.Message)
	assert.Equal(t, "bad request", resp.Response.Error)
}
