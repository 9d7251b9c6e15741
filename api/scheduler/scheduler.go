// Package scheduler runs the periodic background jobs: opportunistic offline
// snapshot capture while online, and the daily moderator digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/cache"
	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/connectivity"
	"github.com/civicpulse/civicpulse-api/databases"
	"github.com/civicpulse/civicpulse-api/markers"
	"github.com/civicpulse/civicpulse-api/models"
)

// Default map viewport captured into snapshots
const (
	defaultCenterLat = 10.85
	defaultCenterLng = 76.27
	defaultZoom      = 7
)

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron    *cron.Cron
	RDB     databases.ReportDatabase
	Store   cache.SnapshotStore
	Monitor *connectivity.Monitor
	conf    *config.Config
}

// New creates a new scheduler instance
func New(rdb databases.ReportDatabase, store cache.SnapshotStore, monitor *connectivity.Monitor, conf *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		RDB:     rdb,
		Store:   store,
		Monitor: monitor,
		conf:    conf,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Capture an offline snapshot every 5 minutes while online
	_, err := s.cron.AddFunc("*/5 * * * *", s.captureSnapshot)
	if err != nil {
		zap.S().Errorw("failed to register snapshot job", "error", err)
	}

	// Mail the open high-priority digest daily at 3 AM UTC
	_, err = s.cron.AddFunc("0 3 * * *", s.sendDailyDigest)
	if err != nil {
		zap.S().Errorw("failed to register digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("civicpulse scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("civicpulse scheduler stopped")
}

// captureSnapshot refreshes the offline snapshot slot from the current
// report set. Skipped while offline: the slot must keep the last-known-good
// online state for offline restoration.
func (s *Scheduler) captureSnapshot() {
	if !s.Monitor.Online() {
		zap.S().Debug("offline, keeping existing snapshot")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reports, err := s.RDB.Find(ctx, bson.M{"deleted": bson.M{"$ne": true}})
	if err != nil {
		zap.S().Warnw("snapshot capture failed to fetch reports", "error", err)
		return
	}

	snap := models.OfflineSnapshot{
		CenterLatitude:  defaultCenterLat,
		CenterLongitude: defaultCenterLng,
		Zoom:            defaultZoom,
		Markers:         markers.Normalize(reports),
		LastUpdated:     time.Now(),
	}
	if err := s.Store.Save(ctx, snap); err != nil {
		zap.S().Warnw("snapshot save failed", "error", err)
		return
	}

	zap.S().Debugw("snapshot captured", "markers", len(snap.Markers))
}

// sendDailyDigest mails moderators the open high and critical reports
func (s *Scheduler) sendDailyDigest() {
	if s.conf.SendgridKey == "" || s.conf.DigestTo == "" {
		zap.S().Debug("digest mail not configured, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	filter := bson.M{
		"deleted":  bson.M{"$ne": true},
		"status":   bson.M{"$in": []models.Status{models.StatusOpen, models.StatusInProgress}},
		"priority": bson.M{"$in": []models.Priority{models.PriorityHigh, models.PriorityCritical}},
	}
	reports, err := s.RDB.Find(ctx, filter)
	if err != nil {
		zap.S().Warnw("digest failed to fetch reports", "error", err)
		return
	}
	if len(reports) == 0 {
		zap.S().Debug("no open high-priority reports, skipping digest")
		return
	}

	body := fmt.Sprintf("There are %d open high-priority reports:\n\n", len(reports))
	for _, r := range reports {
		body += fmt.Sprintf("- [%s/%s] %s (%s)\n", r.Priority, r.Status, r.Description, r.Category.Label())
	}

	from := mail.NewEmail("CivicPulse", s.conf.DigestFrom)
	to := mail.NewEmail("Moderators", s.conf.DigestTo)
	message := mail.NewSingleEmail(from, "Daily high-priority report digest", to, body, "")

	client := sendgrid.NewSendClient(s.conf.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		zap.S().Warnw("digest mail failed", "error", err)
		return
	}
	zap.S().Infow("digest mail sent", "status", resp.StatusCode, "reports", len(reports))
}
