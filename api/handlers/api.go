package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/api"
	"github.com/civicpulse/civicpulse-api/api/scheduler"
	"github.com/civicpulse/civicpulse-api/cache"
	"github.com/civicpulse/civicpulse-api/classifier"
	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/connectivity"
	"github.com/civicpulse/civicpulse-api/databases"
	"github.com/civicpulse/civicpulse-api/geocode"
	"github.com/civicpulse/civicpulse-api/models"
	"github.com/civicpulse/civicpulse-api/render"
)

// Views that carry a rendering mode selector
var selectorViews = []string{"map", "chart", "analytics"}

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	dbHelper  databases.DatabaseHelper
	Monitor   *connectivity.Monitor
	Store     cache.SnapshotStore
	Selectors map[string]*render.Selector
	Hub       *Hub
	Scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	rdb := databases.NewReportDatabase(a.dbHelper)
	geoClient := geocode.NewClient(a.Config.GeocodeBaseURL, a.Config.GeocodeViewbox, a.Config.GeocodeAllow)
	report := Report{RDB: rdb, Hub: a.Hub, Geo: geoClient, MinDescription: a.Config.MinDescription}
	marker := Marker{RDB: rdb}
	analytics := Analytics{RDB: rdb}
	classify := Classify{Classifier: classifier.New(time.Now().UnixNano())}
	geo := Geocode{Client: geoClient}
	snapshot := Snapshot{Store: a.Store}
	renderView := RenderView{RDB: rdb, Selectors: a.Selectors}
	conn := Connectivity{Monitor: a.Monitor}
	cloudinaryHandler := CloudinaryHandler{}
	live := Live{Hub: a.Hub, JWTSecret: a.Config.JWTSecret}

	// healthchex
	r.HandleFunc("/health", a.healthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/report", http.HandlerFunc(report.CreateReportHandler)).Methods("POST")
	apiCreate.Handle("/reports", http.HandlerFunc(report.ReportsHandler)).Methods("GET")
	apiCreate.Handle("/report/{report_id}", http.HandlerFunc(report.ReportByIDHandler)).Methods("GET")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.DeleteReportHandler))).Methods("DELETE")
	apiCreate.Handle("/report/{report_id}/status", api.Middleware(http.HandlerFunc(report.UpdateReportStatusHandler))).Methods("PATCH")
	apiCreate.Handle("/report/{report_id}/priority", api.Middleware(http.HandlerFunc(report.UpdateReportPriorityHandler))).Methods("PATCH")
	apiCreate.Handle("/report/{report_id}/upvote", http.HandlerFunc(report.UpvoteReportHandler)).Methods("POST")
	apiCreate.Handle("/report/{report_id}/downvote", http.HandlerFunc(report.DownvoteReportHandler)).Methods("POST")

	apiCreate.Handle("/markers", http.HandlerFunc(marker.MarkersHandler)).Methods("GET")
	apiCreate.Handle("/analytics", http.HandlerFunc(analytics.AnalyticsHandler)).Methods("GET")
	apiCreate.Handle("/classify", http.HandlerFunc(classify.ClassifyHandler)).Methods("POST")
	apiCreate.Handle("/geocode", http.HandlerFunc(geo.GeocodeHandler)).Methods("GET")

	apiCreate.Handle("/snapshot", http.HandlerFunc(snapshot.SaveSnapshotHandler)).Methods("PUT")
	apiCreate.Handle("/snapshot", http.HandlerFunc(snapshot.GetSnapshotHandler)).Methods("GET")

	apiCreate.Handle("/render/{view}", http.HandlerFunc(renderView.RenderViewHandler)).Methods("GET")
	apiCreate.Handle("/render/{view}/retry", http.HandlerFunc(renderView.RetryHandler)).Methods("POST")
	apiCreate.Handle("/render/{view}/fallback", http.HandlerFunc(renderView.FallbackHandler)).Methods("POST")

	apiCreate.Handle("/connectivity", api.Middleware(http.HandlerFunc(conn.SetConnectivityHandler))).Methods("PUT")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	apiCreate.Handle("/live/ticket", api.Middleware(http.HandlerFunc(live.TicketHandler))).Methods("POST")
	apiCreate.Handle("/live", http.HandlerFunc(live.LiveHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("civicpulse-api has connected to the database")

	// the monitor starts online; operator signals flip it
	a.Monitor = connectivity.NewMonitor(true)

	// snapshot slot: redis when reachable, in-memory otherwise. Losing the
	// slot degrades offline restore, it never blocks startup.
	if store, err := cache.NewRedisStore(a.Config.RedisURL); err != nil {
		zap.S().Warnw("redis unavailable, using in-memory snapshot store", "error", err)
		a.Store = cache.NewMemoryStore()
	} else {
		a.Store = store
	}

	a.Hub = NewHub()
	go a.Hub.Run()

	a.Selectors = map[string]*render.Selector{}
	for _, view := range selectorViews {
		sel := render.NewSelector(view,
			&render.LiveRenderer{Library: libraryForView(view)},
			&render.FallbackRenderer{},
			a.Monitor,
		)
		sel.Start(context.Background())
		a.Selectors[view] = sel
	}

	a.Scheduler = scheduler.New(
		databases.NewReportDatabase(a.dbHelper),
		a.Store,
		a.Monitor,
		&a.Config,
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func libraryForView(view string) string {
	if view == "map" {
		return "leaflet"
	}
	return "chartjs"
}

func (a *App) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	online := a.Monitor != nil && a.Monitor.Online()
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive:  true,
		Online: online,
	})
	_, _ = io.WriteString(w, string(b))
}
