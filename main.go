package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/matst80/magic-search/pkg/common"
	"github.com/matst80/magic-search/pkg/messaging"
	"github.com/matst80/magic-search/pkg/server"
	"github.com/matst80/magic-search/pkg/storage"
	"github.com/matst80/magic-search/pkg/tracking"
	"github.com/matst80/magic-search/pkg/types"
)

var (
	listenAddress   = flag.String("listen", ":8080", "address of the session api")
	debugAddress    = flag.String("debug-addr", ":8081", "address of the metrics and profiling server")
	enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")
	facetsFile      = flag.String("facets", os.Getenv("FACETS_FILE"), "load definitions from this file instead of redis")
	sessionIdle     = flag.Duration("session-idle", 30*time.Minute, "drop sessions unused for this long")
)

var region = common.EnvOr("REGION", "se")
var rabbitUrl = os.Getenv("RABBIT_URL")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")

func main() {
	flag.Parse()
	common.InitLogger("magic-search", common.EnvOr("LOG_ENV", "production"))
	common.SetLogLevel(os.Getenv("LOG_LEVEL"))

	var hooks []common.ShutdownHook
	var store types.FacetStorage
	switch {
	case *facetsFile != "":
		store = storage.NewFileStorage(*facetsFile)
		log.Info().Str("file", *facetsFile).Msg("using file definitions")
	case redisUrl != "":
		redisStore := storage.NewRedisStorage(storage.NewRedisClient(redisUrl, redisPassword, 0), region)
		store = storage.NewCachedStorage(redisStore, time.Minute)
		hooks = append(hooks, func(ctx context.Context) error {
			return redisStore.Close()
		})
		log.Info().Str("region", region).Msg("using redis definitions")
	default:
		log.Fatal().Msg("no facet definitions source, set --facets or REDIS_URL")
	}

	var trk types.Tracking
	if rabbitUrl != "" {
		rt, err := tracking.NewRabbitTracking(rabbitUrl, region)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create rabbit tracking")
		}
		trk = rt
		hooks = append(hooks, func(ctx context.Context) error {
			return rt.Close()
		})
	}

	srv := server.NewSearchServer(store, trk, log.Logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.LoadDefinitions(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load facet definitions")
	}
	srv.StartSweeper(ctx, time.Minute, *sessionIdle)

	if rabbitUrl != "" {
		listener, err := messaging.NewPublisher(messaging.RabbitConfig{Url: rabbitUrl, Prefix: region})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbit")
		}
		err = messaging.ListenToFacetsChanged(listener.Connection(), region, func(payload types.FacetsChanged) error {
			log.Info().Int("choices", len(payload.Choices)).Msg("facets changed")
			return srv.ApplyFacetsChanged(ctx, payload)
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to listen for facet changes")
		}
		hooks = append(hooks, func(ctx context.Context) error {
			return listener.Close()
		})
	}

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if *enableProfiling {
		log.Info().Msg("profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Info().Str("addr", *debugAddress).Msg("starting debug server")
		if err := http.ListenAndServe(*debugAddress, debugMux); err != nil {
			log.Error().Err(err).Msg("debug server stopped")
		}
	}()

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       10 * time.Second,
		Write:      10 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	httpServer := common.NewServerWithTimeouts(&http.Server{
		Addr:    *listenAddress,
		Handler: srv.Handle(),
	}, timeouts)
	common.RunServerWithShutdown(httpServer, "magic search", timeouts.Shutdown, timeouts.Hook, hooks...)
}
