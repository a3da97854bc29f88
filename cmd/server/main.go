// Package main provides the unified simulation server:
// - Run API: trigger simulations over HTTP, query runs and aggregates
// - Live feed: day records streamed to WebSocket subscribers
// - Reporting: Markdown report rendered on demand
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"viwo-token-lab/internal/config"
	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/idhash"
	"viwo-token-lab/internal/observability"
	"viwo-token-lab/internal/orchestrator"
	"viwo-token-lab/internal/reporting"
	"viwo-token-lab/internal/storage"
	chstore "viwo-token-lab/internal/storage/clickhouse"
	"viwo-token-lab/internal/storage/memory"
	"viwo-token-lab/internal/storage/migrations"
	pgstore "viwo-token-lab/internal/storage/postgres"
	"viwo-token-lab/internal/stream"
)

// Server holds all components of the simulation service.
type Server struct {
	params  *config.Params
	stores  *allStores
	feed    *stream.Broadcaster
	logger  *log.Logger
	verbose bool

	// State
	mu          sync.Mutex
	started     time.Time
	runsStarted int
	runsDone    int
	runsFailed  int
	lastRunID   string
	running     bool
}

// allStores holds all storage implementations.
type allStores struct {
	runStore          storage.SimulationRunStore
	dayRecordStore    storage.DayRecordStore
	aggregateStore    storage.RunAggregateStore
	distributionStore storage.RewardDistributionStore
	valuationStore    storage.ValuationStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", ":8080", "API HTTP address")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for per-item distributions")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	paramsFile := flag.String("params", "", "TOML parameter overrides (empty = calibrated defaults)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	params, err := loadParams(*paramsFile)
	if err != nil {
		logger.Fatalf("Failed to load params: %v", err)
	}

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		params:  params,
		stores:  stores,
		feed:    stream.NewBroadcaster(),
		logger:  logger,
		verbose: *verbose,
		started: time.Now(),
	}
	defer server.feed.Close()

	// Metrics endpoint on its own listener
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		logger.Printf("Starting metrics server on %s", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Metrics server error: %v", err)
		}
	}()

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	logger.Printf("Starting API server on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// loadParams returns the calibrated defaults or overrides from a file.
func loadParams(path string) (*config.Params, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			runStore:          memory.NewSimulationRunStore(),
			dayRecordStore:    memory.NewDayRecordStore(),
			aggregateStore:    memory.NewRunAggregateStore(),
			distributionStore: memory.NewRewardDistributionStore(),
			valuationStore:    memory.NewValuationStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &allStores{
		runStore:       pgstore.NewSimulationRunStore(pool),
		dayRecordStore: pgstore.NewDayRecordStore(pool),
		aggregateStore: pgstore.NewRunAggregateStore(pool),
		valuationStore: pgstore.NewValuationStore(pool),
	}

	cleanup := func() { pool.Close() }

	// ClickHouse (analytics)
	if clickhouseDSN != "" {
		chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		stores.distributionStore = chstore.NewRewardDistributionStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// routes wires the HTTP API.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// Run API
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/runs/", s.handleRunByID)

	// Rendered report
	mux.HandleFunc("/report", s.handleReport)

	// Live day-record feed
	mux.Handle("/ws", s.feed)

	return mux
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	RunsStarted int    `json:"runs_started"`
	RunsDone    int    `json:"runs_done"`
	RunsFailed  int    `json:"runs_failed"`
	LastRunID   string `json:"last_run_id,omitempty"`
	RunRunning  bool   `json:"run_running"`
	WSClients   int    `json:"ws_clients"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		RunsStarted: s.runsStarted,
		RunsDone:    s.runsDone,
		RunsFailed:  s.runsFailed,
		LastRunID:   s.lastRunID,
		RunRunning:  s.running,
	}
	s.mu.Unlock()
	resp.WSClients = s.feed.ClientCount()

	writeJSON(w, http.StatusOK, resp)
}

// RunRequest is the JSON body of POST /runs.
type RunRequest struct {
	Scenario      string  `json:"scenario"`
	Seed          int64   `json:"seed"`
	Days          int     `json:"days"`
	InitialSupply float64 `json:"initial_supply"`
	InitialPrice  float64 `json:"initial_price"`
	StakedSupply  float64 `json:"staked_supply"`
	DevCost       float64 `json:"dev_cost"`
	OpexCost      float64 `json:"opex_cost"`
}

// handleRuns lists stored runs (GET) or launches a new run (POST).
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		runs, err := s.stores.runStore.GetAll(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, runs)

	case http.MethodPost:
		s.handleStartRun(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

// handleStartRun validates the request and launches the run in the
// background; day records stream over /ws while it progresses.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if req.Scenario == "" {
		req.Scenario = domain.ScenarioBaseline
	}
	scenario, ok := domain.ScenarioByID(req.Scenario)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown scenario %q", req.Scenario))
		return
	}
	if req.Days <= 0 {
		req.Days = 365
	}
	if req.InitialSupply <= 0 {
		req.InitialSupply = 1_000_000_000
	}

	// The run ID is deterministic over the request inputs, so it is
	// known before the orchestrator computes it.
	runID := idhash.ComputeRunID(scenario.ScenarioID, req.Seed, req.Days, s.params.Hash())

	orch, err := orchestrator.New(orchestrator.Options{
		Params:        s.params,
		Scenario:      scenario,
		Seed:          req.Seed,
		Days:          req.Days,
		InitialSupply: req.InitialSupply,
		InitialPrice:  req.InitialPrice,
		StakedSupply:  req.StakedSupply,
		Projection: domain.PlatformProjection{
			DevelopmentCost:     req.DevCost,
			AnnualOperatingCost: req.OpexCost,
		},
		RunStore:          s.stores.runStore,
		DayRecordStore:    s.stores.dayRecordStore,
		AggregateStore:    s.stores.aggregateStore,
		DistributionStore: s.stores.distributionStore,
		ValuationStore:    s.stores.valuationStore,
		OnDay: func(rec *domain.DayRecord) {
			observability.RecordDaySimulated(runID, rec.CurrentPrice, rec.CirculatingSupply)
			if err := s.feed.Broadcast(dayEvent{RunID: runID, Record: rec}); err != nil && s.verbose {
				s.logger.Printf("Broadcast error: %v", err)
			}
		},
		Verbose: s.verbose,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	s.runsStarted++
	s.running = true
	s.mu.Unlock()
	observability.RecordRunStarted(scenario.ScenarioID)

	go s.executeRun(scenario.ScenarioID, orch)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "started",
		"scenario": scenario.ScenarioID,
		"run_id":   runID,
	})
}

// dayEvent is the WebSocket frame published for each simulated day.
type dayEvent struct {
	RunID  string            `json:"run_id"`
	Record *domain.DayRecord `json:"record"`
}

// executeRun drives one orchestrated run to completion in the
// background. The run outlives the triggering request, so it carries
// its own context.
func (s *Server) executeRun(scenarioID string, orch *orchestrator.Orchestrator) {
	start := time.Now()
	result, err := orch.Run(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false

	if err != nil {
		s.runsFailed++
		observability.RecordRunFailed(scenarioID)
		s.logger.Printf("Run failed: %v", err)
		return
	}

	s.runsDone++
	s.lastRunID = result.Run.RunID
	agg := result.Aggregate
	observability.RecordRunCompleted(scenarioID, time.Since(start).Seconds(), agg.TotalMinted, agg.TotalBurned)
	s.logger.Printf("Run %s completed in %v: final price %.6f, %d persistence errors",
		result.Run.RunID, time.Since(start), agg.FinalPrice, len(result.Errors))
	for _, e := range result.Errors {
		s.logger.Printf("  persistence: %s", e)
	}
}

// RunDetail joins a run with its aggregate for GET /runs/{id}.
type RunDetail struct {
	Run       *domain.SimulationRun `json:"run"`
	Aggregate *domain.RunAggregate  `json:"aggregate,omitempty"`
}

// handleRunByID returns one run and, when available, its aggregate.
func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	runID := strings.TrimPrefix(r.URL.Path, "/runs/")
	if runID == "" || strings.Contains(runID, "/") {
		writeError(w, http.StatusBadRequest, errors.New("run ID required"))
		return
	}

	run, err := s.stores.runStore.GetByID(r.Context(), runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("run %s not found", runID))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	detail := RunDetail{Run: run}
	agg, err := s.stores.aggregateStore.GetByRunID(r.Context(), runID)
	if err == nil {
		detail.Aggregate = agg
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// handleReport renders the Markdown report over all stored runs.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	gen := reporting.NewGenerator(s.stores.runStore, s.stores.aggregateStore, s.stores.valuationStore)
	report, err := gen.Generate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(reporting.RenderMarkdown(report)))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
