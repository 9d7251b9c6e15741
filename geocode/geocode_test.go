package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse-api/geocode"
)

const nominatimBody = `[
	{
		"display_name": "Kochi, Ernakulam, Kerala, India",
		"lat": "9.9312",
		"lon": "76.2673",
		"address": {"city": "Kochi", "state": "Kerala"}
	},
	{
		"display_name": "Cochin, Queensland, Australia",
		"lat": "-27.4698",
		"lon": "153.0251",
		"address": {"city": "Cochin", "state": "Queensland"}
	}
]`

func TestSearch_ReturnsFirstAllowedCandidate(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("bounded"))
		assert.Equal(t, "74.8,12.9,77.7,8.2", r.URL.Query().Get("viewbox"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(nominatimBody))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "", "")
	place, err := client.Search(context.Background(), "Kochi")
	assert.NoError(t, err)
	assert.Equal(t, "Kochi", gotQuery)
	assert.Equal(t, "Kochi, Ernakulam, Kerala, India", place.DisplayName)
	assert.Equal(t, 9.9312, place.Latitude)
	assert.Equal(t, 76.2673, place.Longitude)
	assert.Equal(t, "Kochi", place.City)
	assert.Equal(t, "Kerala", place.Region)
}

func TestSearch_AllowListFiltersForeignMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"display_name": "Cochin, Queensland, Australia",
				"lat": "-27.4698",
				"lon": "153.0251",
				"address": {"city": "Cochin", "state": "Queensland"}
			}
		]`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "", "")
	place, err := client.Search(context.Background(), "Cochin")
	assert.Nil(t, place)
	assert.ErrorIs(t, err, geocode.ErrNotFound)
}

func TestSearch_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "", "")
	place, err := client.Search(context.Background(), "nowhere at all")
	assert.Nil(t, place)
	assert.ErrorIs(t, err, geocode.ErrNotFound)
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "", "")
	place, err := client.Search(context.Background(), "Kochi")
	assert.Nil(t, place)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected geocode status code")
}

func TestSearch_CustomAllowList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(nominatimBody))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "", "Queensland, Australia")
	place, err := client.Search(context.Background(), "Cochin")
	assert.NoError(t, err)
	assert.Equal(t, "Cochin", place.City)
	assert.Equal(t, "Queensland", place.Region)
}

func TestSearch_TownFallsBackWhenNoCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"display_name": "Ponnani, Malappuram, Kerala, India",
				"lat": "10.7676",
				"lon": "75.9258",
				"address": {"town": "Ponnani", "state": "Kerala"}
			}
		]`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "", "")
	place, err := client.Search(context.Background(), "Ponnani")
	assert.NoError(t, err)
	assert.Equal(t, "Ponnani", place.City)
}
