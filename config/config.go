package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/models"
)

// Config holds the project config values
type Config struct {
	URL            string
	DatabaseName   string
	BaseURL        string
	Port           string
	RedisURL       string
	GeocodeBaseURL string
	GeocodeViewbox string
	GeocodeAllow   string
	MinDescription int
	JWTSecret      string
	SendgridKey    string
	DigestFrom     string
	DigestTo       string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	minDesc, err := strconv.Atoi(os.Getenv("REPORT_MIN_DESCRIPTION"))
	if err != nil || minDesc <= 0 {
		minDesc = 10
	}

	return &Config{
		URL:            os.Getenv("DB_URI"),
		DatabaseName:   os.Getenv("DB_NAME"),
		BaseURL:        os.Getenv("BASE_URL"),
		Port:           os.Getenv("PORT"),
		RedisURL:       os.Getenv("REDIS_URL"),
		GeocodeBaseURL: os.Getenv("GEOCODE_BASE_URL"),
		GeocodeViewbox: os.Getenv("GEOCODE_VIEWBOX"),
		GeocodeAllow:   os.Getenv("GEOCODE_ALLOW_LIST"),
		MinDescription: minDesc,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SendgridKey:    os.Getenv("SENDGRID_API_KEY"),
		DigestFrom:     os.Getenv("DIGEST_FROM_EMAIL"),
		DigestTo:       os.Getenv("DIGEST_TO_EMAIL"),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: err.Error()},
	})
	w.Write(b)
}
