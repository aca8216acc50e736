package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"guardhouse/config"
	"guardhouse/internal/backend"
	"guardhouse/internal/console"
	"guardhouse/internal/db"
	"guardhouse/internal/health"
	"guardhouse/internal/logs"
	"guardhouse/internal/middleware"
	"guardhouse/internal/querycache"
	"guardhouse/internal/session"
	"guardhouse/internal/telemetry"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	cache      *querycache.Cache
	sessions   *session.Manager
	Router     *mux.Router
	httpServer *http.Server
	tracing    telemetry.ShutdownFunc

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) error {
	a.cfg = cfg

	/* 1) Логи */
	if err := logs.Init(logs.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		return err
	}
	log := logs.With("server")

	/* 2) Трассы (опционально) */
	a.tracing = telemetry.Setup(context.Background(), telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
	}, logs.With("telemetry"))

	/* 3) DB сессий (опционально) */
	if drv := cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, cfg.Database.DSN, logs.With("db"))
		if err != nil {
			return fmt.Errorf("db open failed: %w", err)
		}
		if err := db.Migrate(d); err != nil {
			return fmt.Errorf("db migrate failed: %w", err)
		}
		a.db = d
	}

	/* 4) Метрики, кэш, сессия, клиент бэкенда */
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cache, err := querycache.New(querycache.Options{
		Capacity:     cfg.Cache.Capacity,
		GCTime:       cfg.Cache.GCTime,
		FetchTimeout: cfg.Cache.FetchTimeout,
		Metrics:      querycache.NewMetrics(reg),
		Logger:       logs.With("querycache"),
	})
	if err != nil {
		return fmt.Errorf("query cache: %w", err)
	}
	a.cache = cache

	store, err := newSessionStore(a.db, cfg.Session.Secret)
	if err != nil {
		return err
	}
	a.sessions = session.NewManager(store, cfg.Session.Slot)
	a.sessions.OnChange(clearOnUserChange(cache, logs.With("session")))
	if err := a.sessions.Load(context.Background()); err != nil {
		// повреждённая или чужая сессия: начинаем с чистого входа
		log.WithError(err).Warn("stored session discarded")
		if _, err := a.sessions.Clear(context.Background()); err != nil {
			log.WithError(err).Warn("stored session cleanup failed")
		}
	}

	api, err := backend.New(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Tokens:  a.sessions,
		Logger:  logs.With("backend"),
	})
	if err != nil {
		return err
	}

	/* 5) Router + middleware */
	a.Router = mux.NewRouter()
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 6) Health, метрики */
	health.RegisterRoutes(a.Router, readinessChecks(a.db, api))
	a.Router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	/* 7) Консоль */
	if err := console.Attach(a.Router, console.Dependencies{
		API:      api,
		Cache:    cache,
		Sessions: a.sessions,
		Log:      logs.With("console"),
	}); err != nil {
		return err
	}

	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := rt.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Debugf("route: %-6v %s", methods, path)
		return nil
	})
	return nil
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return errors.New("server not initialized")
	}
	log := logs.With("server")

	a.ctx, a.cancel = context.WithCancel(context.Background())
	defer a.cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case s := <-sigs:
			log.Infof("shutdown signal: %s", s)
			a.cancel()
		case <-a.ctx.Done():
		}
	}()

	bind := a.cfg.Listen()
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           otelhttp.NewHandler(a.Router, "guardhouse"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// представления ждут первую загрузку из бэкенда
		WriteTimeout: a.cfg.Cache.FetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	var runErr error
	select {
	case <-a.ctx.Done():
	case runErr = <-errc:
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	a.cache.Close()
	if err := a.tracing(ctx); err != nil {
		log.Warnf("tracing shutdown: %v", err)
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return runErr
}
