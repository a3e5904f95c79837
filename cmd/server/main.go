// Package main runs the portfolio analytics service:
// - Refresh (scheduled): pool snapshot → enrichment → cache, history, broadcast
// - API (on demand): pool listing, per-user portfolio reports
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"defi-portfolio-lab/internal/analytics"
	"defi-portfolio-lab/internal/domain"
	"defi-portfolio-lab/internal/observability"
	"defi-portfolio-lab/internal/snapshot"
	"defi-portfolio-lab/internal/storage"
	chstore "defi-portfolio-lab/internal/storage/clickhouse"
	"defi-portfolio-lab/internal/storage/memory"
	"defi-portfolio-lab/internal/storage/migrations"
	pgstore "defi-portfolio-lab/internal/storage/postgres"
	"defi-portfolio-lab/internal/subgraph"
	"defi-portfolio-lab/internal/ws"
)

// Default public subgraph endpoints.
const (
	defaultExchangeEndpoint   = "https://api.thegraph.com/subgraphs/name/traderjoe-xyz/exchange"
	defaultMasterchefEndpoint = "https://api.thegraph.com/subgraphs/name/traderjoe-xyz/masterchefv2"
	defaultBarEndpoint        = "https://api.thegraph.com/subgraphs/name/traderjoe-xyz/bar"
	defaultBlocksEndpoint     = "https://api.thegraph.com/subgraphs/name/dasconnor/avalanche-blocks"
	defaultRewardToken        = "0x6e84a6216ea6dacc71ee8e6b0a5b7322eebc0fdd"
)

// Server holds all components of the service.
type Server struct {
	builder   *snapshot.Builder
	cache     snapshot.Cache
	cacheTTL  time.Duration
	policy    domain.PoolFilterPolicy
	hub       *ws.Hub
	yieldHist storage.PoolYieldHistoryStore
	snapStore storage.PortfolioSnapshotStore
	log       *logrus.Logger

	// Latest refresh result, served by /api/pools between refreshes.
	mu          sync.RWMutex
	latest      *analytics.PoolsResult
	latestBlock int64
	lastRefresh time.Time
	refreshes   int
	started     time.Time
}

func main() {
	loadEnvFile()

	exchangeEndpoint := flag.String("exchange-endpoint", envOr("EXCHANGE_SUBGRAPH", defaultExchangeEndpoint), "Exchange subgraph endpoint")
	masterchefEndpoint := flag.String("masterchef-endpoint", envOr("MASTERCHEF_SUBGRAPH", defaultMasterchefEndpoint), "Masterchef subgraph endpoint")
	barEndpoint := flag.String("bar-endpoint", envOr("BAR_SUBGRAPH", defaultBarEndpoint), "Staking bar subgraph endpoint")
	blocksEndpoint := flag.String("blocks-endpoint", envOr("BLOCKS_SUBGRAPH", defaultBlocksEndpoint), "Blocks subgraph endpoint")
	rewardToken := flag.String("reward-token", envOr("REWARD_TOKEN", defaultRewardToken), "Reward token address in the exchange subgraph")
	addr := flag.String("addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	refreshInterval := flag.Duration("refresh-interval", 2*time.Minute, "Pool snapshot refresh interval")
	cacheTTL := flag.Duration("cache-ttl", time.Minute, "User snapshot cache TTL")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for the snapshot cache (in-process cache when empty)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	excludedPools := flag.String("excluded-pools", "", "Comma-separated pool ids to exclude from the listing")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	}

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		log.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	yieldHist, snapStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		log.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	cache, err := createCache(ctx, *redisAddr)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}

	builder := snapshot.NewBuilder(snapshot.Sources{
		Exchange:   subgraph.NewExchangeClient(subgraph.NewClient(*exchangeEndpoint)),
		Masterchef: subgraph.NewMasterchefClient(subgraph.NewClient(*masterchefEndpoint)),
		Bar:        subgraph.NewBarClient(subgraph.NewClient(*barEndpoint)),
		Blocks:     subgraph.NewBlocksClient(subgraph.NewClient(*blocksEndpoint)),
	}, *rewardToken, snapshot.WithLogger(log))

	policy := domain.DefaultPoolFilterPolicy()
	for _, id := range strings.Split(*excludedPools, ",") {
		if id = strings.TrimSpace(id); id != "" {
			policy.ExcludedPoolIDs[id] = true
		}
	}

	server := &Server{
		builder:   builder,
		cache:     cache,
		cacheTTL:  *cacheTTL,
		policy:    policy,
		hub:       ws.NewHub(log),
		yieldHist: yieldHist,
		snapStore: snapStore,
		log:       log,
		started:   time.Now(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Infof("Received signal %v, shutting down", sig)
		cancel()
		sig = <-sigCh
		log.Warnf("Received second signal %v, forcing exit", sig)
		os.Exit(1)
	}()

	go server.hub.Run(ctx)
	go server.runRefreshLoop(ctx, *refreshInterval)

	if err := server.serveHTTP(ctx, *addr); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
	log.Info("Shutdown complete")
}

// createStores wires the history and snapshot stores for the chosen mode.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.PoolYieldHistoryStore, storage.PortfolioSnapshotStore, func(), error) {
	if useMemory {
		return memory.NewPoolYieldHistoryStore(), memory.NewPortfolioSnapshotStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	conn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		conn.Close()
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}
	return chstore.NewPoolYieldHistoryStore(conn), pgstore.NewPortfolioSnapshotStore(pool), cleanup, nil
}

// createCache returns a redis-backed cache when an address is configured,
// an in-process one otherwise.
func createCache(ctx context.Context, redisAddr string) (snapshot.Cache, error) {
	if redisAddr == "" {
		return snapshot.NewMemoryCache(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return snapshot.NewRedisCache(client), nil
}

// runRefreshLoop refreshes the pool listing on a fixed interval.
func (s *Server) runRefreshLoop(ctx context.Context, interval time.Duration) {
	s.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh builds a pool snapshot, enriches it, and fans the result out to
// the cache, the yield history, and websocket subscribers.
func (s *Server) refresh(ctx context.Context) {
	start := time.Now()

	snap, err := s.builder.Pools(ctx)
	if err != nil {
		s.log.WithError(err).Error("refresh: build pool snapshot")
		observability.RecordRefresh("error", time.Since(start).Seconds())
		return
	}

	result := analytics.EnrichPools(snap, s.policy)

	s.mu.Lock()
	sameBlock := s.latestBlock == snap.Timing.LatestBlock
	s.latest = &result
	s.latestBlock = snap.Timing.LatestBlock
	s.lastRefresh = time.Now()
	s.refreshes++
	s.mu.Unlock()

	if err := s.cache.Set(ctx, snapshot.PoolsKey, snap, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("refresh: cache pool snapshot")
	}

	// History gets one row set per chain block; a refresh that saw no new
	// block would collide with the previous write.
	if !sameBlock {
		records := make([]*storage.PoolYieldRecord, 0, len(result.Rows))
		for _, row := range result.Rows {
			records = append(records, storage.NewPoolYieldRecord(row, snap.Timing.LatestBlock, start))
		}
		if err := s.yieldHist.InsertBulk(ctx, records); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			s.log.WithError(err).Error("refresh: store yield history")
		} else if err == nil {
			observability.DefaultMetrics.HistoryRowsStored.Add(float64(len(records)))
		}
	}

	s.hub.BroadcastPools(result.Rows)

	missing := 0
	for _, n := range result.MissingPairs {
		missing += n
	}
	observability.UpdatePoolCounts(len(result.Rows), missing, result.Malformed)
	observability.UpdateTiming(snap.Timing.LatestBlock, snap.Timing.AverageBlockTime.InexactFloat64())
	observability.RecordRefresh("success", time.Since(start).Seconds())
	observability.DefaultMetrics.LastSuccessfulRefresh.SetToCurrentTime()

	s.log.WithFields(logrus.Fields{
		"pools":    len(result.Rows),
		"missing":  missing,
		"block":    snap.Timing.LatestBlock,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("refreshed pool listing")
}

// serveHTTP runs the API server until ctx is canceled.
func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/api/pools", s.handlePools)
	mux.HandleFunc("/api/users/", s.handleUser)
	mux.Handle("/ws", s.hub)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Warn("HTTP shutdown")
		}
	}()

	s.log.Infof("Listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handlePools serves the latest enriched pool listing.
func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	result := s.latest
	block := s.latestBlock
	s.mu.RUnlock()

	if result == nil {
		http.Error(w, "pool listing not available yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]any{
		"block":        block,
		"pools":        result.Rows,
		"missingPairs": result.MissingPairs,
	})
}

// handleUser computes a portfolio report for /api/users/{address}.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(strings.TrimPrefix(r.URL.Path, "/api/users/"))
	if address == "" || strings.Contains(address, "/") {
		http.Error(w, "user address required", http.StatusBadRequest)
		return
	}

	snap, err := s.userSnapshot(r.Context(), address)
	if err != nil {
		s.log.WithError(err).WithField("user", address).Error("build user snapshot")
		observability.RecordPortfolioRequest("error", 0)
		http.Error(w, "upstream data unavailable", http.StatusBadGateway)
		return
	}

	report := analytics.BuildReport(address, snap)
	observability.RecordPortfolioRequest("success", report.Excluded)

	s.persistReport(r.Context(), &report)
	writeJSON(w, report)
}

// userSnapshot returns a cached user snapshot or builds a fresh one.
func (s *Server) userSnapshot(ctx context.Context, address string) (*domain.Snapshot, error) {
	key := snapshot.UserKeyPrefix + address
	if snap, err := s.cache.Get(ctx, key); err == nil {
		observability.RecordCacheLookup("user", true)
		return snap, nil
	} else if !errors.Is(err, snapshot.ErrCacheMiss) {
		s.log.WithError(err).Warn("user snapshot cache get")
	}
	observability.RecordCacheLookup("user", false)

	snap, err := s.builder.User(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, snap, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("user snapshot cache set")
	}
	return snap, nil
}

// persistReport records the report for history. Duplicate (user, block)
// writes are expected within one block interval and are not errors.
func (s *Server) persistReport(ctx context.Context, report *domain.PortfolioReport) {
	err := s.snapStore.Insert(ctx, &storage.PortfolioSnapshot{
		User:    report.User,
		Block:   report.Block,
		TakenAt: time.Now(),
		Report:  *report,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.log.WithError(err).WithField("user", report.User).Error("store portfolio snapshot")
	}
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	Refreshes   int       `json:"refreshes"`
	LastRefresh time.Time `json:"last_refresh,omitempty"`
	LatestBlock int64     `json:"latest_block"`
	Pools       int       `json:"pools"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := 0
	if s.latest != nil {
		pools = len(s.latest.Rows)
	}
	writeJSON(w, StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		Refreshes:   s.refreshes,
		LastRefresh: s.lastRefresh,
		LatestBlock: s.latestBlock,
		Pools:       pools,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
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
		if os.Getenv(key) == "" {
			os.Setenv(key, strings.TrimSpace(parts[1]))
		}
	}
}
