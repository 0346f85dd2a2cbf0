package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgx-contrib/pgxtrace"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/alert"
	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	"github.com/orbitarch/orbitarch-service-go/pkg/db/postgres"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/pkg/endpoints/api"
	"github.com/orbitarch/orbitarch-service-go/pkg/metrics"
	"github.com/orbitarch/orbitarch-service-go/pkg/predict"
	"github.com/orbitarch/orbitarch-service-go/pkg/utils"
	"github.com/orbitarch/orbitarch-service-go/pkg/utils/certs"
)

func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the prediction server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.Addr,
		"addr",
		"a",
		"localhost:5000",
		"HTTP server listen address")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data, 'stdout' for local debugging")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"if set, non-low recommendations are published to this nats server")
	cmd.Flags().StringVar(&config.NatsSubject,
		"nats-subject",
		alert.DefaultSubject,
		"subject for alert messages")
	cmd.Flags().StringVar(&config.ShutdownTimeout,
		"shutdown-timeout",
		"10s",
		"grace period for in-flight requests on shutdown")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert-file",
		"",
		"file containing the TLS certificate")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key-file",
		"",
		"file containing the TLS key")
	cmd.Flags().StringVar(&config.TraefikCerts,
		"traefik-certs",
		"",
		"traefik acme.json to take the TLS certificate from")
	cmd.Flags().StringVar(&config.TraefikCertDomain,
		"traefik-cert-domain",
		"",
		"main domain of the certificate in --traefik-certs")
	return cmd
}

//nolint:funlen,cyclop // by design
func startServer(ctx context.Context) error {
	logger, err := config.SetupLogger()
	if err != nil {
		return err
	}
	var telemetry *config.Telemetry

	log.Debug("Config:",
		log.String("addr", config.Addr),
		log.String("debrisSource", config.DebrisSource),
		log.Float64("density", config.DebrisDensity),
		log.String("natsUrl", config.NatsURL),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	pgTracer := pgxtrace.CompositeQueryTracer{
		postgres.NewMyTracer(logger, config.ParseLogLevel(config.LogLevel, log.InfoLevel)),
	}
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		if telemetry, err = config.SetupTelemetry(ctx); err == nil {
			pgTracer = append(pgTracer, postgres.NewOtlpTracer())
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}
	if telemetry != nil {
		defer telemetry.Shutdown()
	}

	table, pool, err := loadTable(ctx, pgTracer)
	if err != nil {
		log.Error("debris table could not be loaded", log.ErrorField(err))
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return err
	}
	collector.SetDebrisRecords(table.Len())

	svcOpts := []predict.Option{predict.WithObserver(collector)}
	if config.NatsURL != "" {
		conn, err := alert.Connect(config.NatsURL)
		if err != nil {
			log.Error("could not connect to nats", log.ErrorField(err))
			return err
		}
		publisher := alert.NewNatsPublisher(conn, alert.WithSubject(config.NatsSubject))
		defer publisher.Close()
		svcOpts = append(svcOpts, predict.WithPublisher(publisher))
		log.Info("Publishing alerts", log.String("subject", publisher.Subject()))
	}
	svc := predict.NewServiceFromConfig(config.Pipeline(), table, svcOpts...)

	mux := http.NewServeMux()
	api.NewHandler(svc).Register(mux)
	mux.Handle("GET /metrics", collector.Handler())

	//nolint:gosec // by design
	server := &http.Server{
		Addr: config.Addr,
		Handler: h2c.NewHandler(
			newCORS().Handler(
				otelhttp.NewHandler(
					api.RequestID(collector.Middleware(mux)),
					"oas")),
			&http2.Server{}),
	}

	tlsEnabled := config.TLSCertFile != "" || config.TraefikCerts != ""
	if tlsEnabled {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		provider, err := newCertProvider(ctx)
		if err != nil {
			log.Error("TLS certificate could not be loaded", log.ErrorField(err))
			return err
		}
		server.TLSConfig = provider.TLSConfig()
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server",
			log.String("addr", config.Addr),
			log.Bool("tls", tlsEnabled),
			log.Int("debrisRecords", table.Len()))
		var err error
		if tlsEnabled {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		if err != nil {
			log.Error("server could not be started", log.ErrorField(err))
			return err
		}
	case v := <-sigChan:
		log.Debug("Got signal ", log.Any("signal", v))
	}

	timeout, err := time.ParseDuration(config.ShutdownTimeout)
	if err != nil {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown incomplete", log.ErrorField(err))
	}

	log.Info("Server terminated")
	return nil
}

// loadTable reads the debris table before the listener is opened. For
// postgres sources the returned pool stays open until shutdown.
//
//nolint:whitespace // can't make both editor and linter happy
func loadTable(
	ctx context.Context, tracer pgxtrace.CompositeQueryTracer,
) (*debris.Table, *pgxpool.Pool, error) {
	if !debris.IsPostgresSource(config.DebrisSource) {
		table, err := debris.Load(ctx, config.DebrisSource)
		return table, nil, err
	}
	pool, err := postgres.InitWithURL(ctx, config.DebrisSource, postgres.WithTracer(tracer))
	if err != nil {
		return nil, nil, err
	}
	table, err := debris.Load(ctx, config.DebrisSource, debris.WithPool(pool))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return table, pool, nil
}

func newCertProvider(ctx context.Context) (*certs.Provider, error) {
	provider, err := certs.NewProvider(ctx,
		certs.WithKeyPair(config.TLSCertFile, config.TLSKeyFile),
		certs.WithTraefik(config.TraefikCerts, config.TraefikCertDomain))
	if err != nil {
		return nil, err
	}
	if err := provider.Watch(); err != nil {
		log.Warn("certificate changes will not be picked up", log.ErrorField(err))
	}
	return provider, nil
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	wg := sync.WaitGroup{}
	checkTCP := func(addr string) {
		defer wg.Done()
		if err := utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
	}

	if debris.IsPostgresSource(config.DebrisSource) {
		if addr := utils.ExtractFromDBURL(config.DebrisSource); addr != "" {
			wg.Add(1)
			go checkTCP(addr)
		}
	}
	if config.NatsURL != "" {
		if addr := utils.ExtractFromNatsURL(config.NatsURL); addr != "" {
			wg.Add(1)
			go checkTCP(addr)
		}
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}

func newCORS() *cors.Cors {
	// Browser clients call the API from other origins, allow all of them.
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			api.RequestIDHeader,
		},
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
