// Package run contains the command to run a skylark server.
package run

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/skylark-social/skylark/internal/build"
	serverconfig "github.com/skylark-social/skylark/internal/server/config"
	"github.com/skylark-social/skylark/pkg/cmd/util"
	"github.com/skylark-social/skylark/pkg/logger"
	"github.com/skylark-social/skylark/pkg/server"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/storage/memory"
	"github.com/skylark-social/skylark/pkg/storage/postgres"
	"github.com/skylark-social/skylark/pkg/storage/sqlcommon"
	"github.com/skylark-social/skylark/pkg/storage/sqlite"
	"github.com/skylark-social/skylark/pkg/telemetry"
)

func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the skylark server",
		Run:   run,
		Args:  cobra.NoArgs,
	}

	defaultConfig := serverconfig.DefaultConfig()
	flags := cmd.Flags()

	flags.String("datastore-engine", defaultConfig.Datastore.Engine, "the datastore engine that will be used for persistence ('memory', 'sqlite', 'postgres')")
	flags.String("datastore-uri", defaultConfig.Datastore.URI, "the connection uri to use to connect to the datastore")
	flags.Int("datastore-max-open-conns", defaultConfig.Datastore.MaxOpenConns, "the maximum number of open connections to the datastore")
	flags.Int("datastore-max-idle-conns", defaultConfig.Datastore.MaxIdleConns, "the maximum number of connections in the idle connection pool")
	flags.Duration("datastore-conn-max-idle-time", defaultConfig.Datastore.ConnMaxIdleTime, "the maximum amount of time a connection to the datastore may be idle")
	flags.Duration("datastore-conn-max-lifetime", defaultConfig.Datastore.ConnMaxLifetime, "the maximum amount of time a connection to the datastore may be reused")
	flags.Bool("datastore-metrics-enabled", defaultConfig.Datastore.Metrics, "enable export of datastore pool metrics")

	flags.String("http-addr", defaultConfig.HTTP.Addr, "the host:port address to serve the HTTP server on")
	flags.StringSlice("http-cors-allowed-origins", defaultConfig.HTTP.CORSAllowedOrigins, "the allowed CORS origins")

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in ('text', 'json')")
	flags.String("log-level", defaultConfig.Log.Level, "the log level to use")

	flags.Bool("trace-enabled", defaultConfig.Trace.Enabled, "enable tracing")
	flags.String("trace-otlp-endpoint", defaultConfig.Trace.OTLPEndpoint, "the endpoint of the trace collector")
	flags.Float64("trace-sample-ratio", defaultConfig.Trace.SampleRatio, "the fraction of traces to sample")

	flags.Bool("metrics-enabled", defaultConfig.Metrics.Enabled, "expose prometheus metrics")
	flags.String("metrics-addr", defaultConfig.Metrics.Addr, "the host:port address to serve the prometheus metrics server on")

	return cmd
}

func run(cmd *cobra.Command, _ []string) {
	config := readConfig(cmd)

	if err := config.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.MustNewLogger(config.Log.Format, config.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx, config, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

// readConfig layers flag values under SKYLARK_ prefixed env variables.
func readConfig(cmd *cobra.Command) *serverconfig.Config {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		util.MustBindPFlag(f.Name, f)
		util.MustBindEnv(f.Name, "SKYLARK_"+strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")))
	})

	config := serverconfig.DefaultConfig()
	config.Datastore.Engine = viper.GetString("datastore-engine")
	config.Datastore.URI = viper.GetString("datastore-uri")
	config.Datastore.MaxOpenConns = viper.GetInt("datastore-max-open-conns")
	config.Datastore.MaxIdleConns = viper.GetInt("datastore-max-idle-conns")
	config.Datastore.ConnMaxIdleTime = viper.GetDuration("datastore-conn-max-idle-time")
	config.Datastore.ConnMaxLifetime = viper.GetDuration("datastore-conn-max-lifetime")
	config.Datastore.Metrics = viper.GetBool("datastore-metrics-enabled")
	config.HTTP.Addr = viper.GetString("http-addr")
	config.HTTP.CORSAllowedOrigins = viper.GetStringSlice("http-cors-allowed-origins")
	config.Log.Format = viper.GetString("log-format")
	config.Log.Level = viper.GetString("log-level")
	config.Trace.Enabled = viper.GetBool("trace-enabled")
	config.Trace.OTLPEndpoint = viper.GetString("trace-otlp-endpoint")
	config.Trace.SampleRatio = viper.GetFloat64("trace-sample-ratio")
	config.Metrics.Enabled = viper.GetBool("metrics-enabled")
	config.Metrics.Addr = viper.GetString("metrics-addr")
	return config
}

func buildDatastore(config *serverconfig.Config, log logger.Logger) (storage.DataStore, error) {
	dsCfg := sqlcommon.NewConfig(
		sqlcommon.WithLogger(log),
		sqlcommon.WithMaxOpenConns(config.Datastore.MaxOpenConns),
		sqlcommon.WithMaxIdleConns(config.Datastore.MaxIdleConns),
		sqlcommon.WithConnMaxIdleTime(config.Datastore.ConnMaxIdleTime),
		sqlcommon.WithConnMaxLifetime(config.Datastore.ConnMaxLifetime),
		sqlcommon.WithMetrics(config.Datastore.Metrics),
	)

	switch config.Datastore.Engine {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlite.New(config.Datastore.URI, dsCfg)
	case "postgres":
		return postgres.New(config.Datastore.URI, dsCfg)
	default:
		return nil, fmt.Errorf("storage engine '%s' is unsupported", config.Datastore.Engine)
	}
}

func runServer(ctx context.Context, config *serverconfig.Config, log logger.Logger) error {
	log.Info("starting skylark",
		zap.String("version", build.Version),
		zap.String("commit", build.Commit),
		zap.String("engine", config.Datastore.Engine),
	)

	if config.Trace.Enabled {
		tp := telemetry.MustNewTracerProvider(
			telemetry.WithOTLPEndpoint(config.Trace.OTLPEndpoint),
			telemetry.WithServiceName("skylark"),
			telemetry.WithSamplingRatio(config.Trace.SampleRatio),
		)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	datastore, err := buildDatastore(config, log)
	if err != nil {
		return err
	}
	defer datastore.Close()

	if err := sqlcommon.WaitReady(ctx, datastore); err != nil {
		return fmt.Errorf("datastore not ready: %w", err)
	}

	srv := server.New(datastore,
		server.WithLogger(log),
		server.WithCORSAllowedOrigins(config.HTTP.CORSAllowedOrigins),
	)

	httpServer := &http.Server{
		Addr:    config.HTTP.Addr,
		Handler: srv.Handler(),
	}

	var metricsServer *http.Server
	if config.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: config.Metrics.Addr, Handler: metricsMux}
		go func() {
			log.Info("serving metrics", zap.String("addr", config.Metrics.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving http", zap.String("addr", config.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return nil
}
