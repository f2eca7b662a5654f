package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/matst80/magic-search/pkg/common"
	"github.com/matst80/magic-search/pkg/storage"
	"github.com/matst80/magic-search/pkg/types"
)

var (
	listenAddress = flag.String("listen", ":8082", "address of the admin api")
	mockAuth      = flag.Bool("mock-auth", false, "accept every request as admin")
	facetsFile    = flag.String("facets", common.EnvOr("FACETS_FILE", ""), "store definitions in this file instead of redis")
)

var region = common.EnvOr("REGION", "se")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var rabbitUrl = os.Getenv("RABBIT_URL")

func routes(app *WriterApp, auth AuthHandler) *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.HandleFunc("/admin/login", auth.Login)
	srv.HandleFunc("/admin/logout", auth.Logout)
	srv.HandleFunc("/admin/auth_callback", auth.AuthCallback)
	srv.HandleFunc("/admin/user", auth.User)
	srv.HandleFunc("GET /admin/facets", auth.Middleware(app.getFacets))
	srv.HandleFunc("PUT /admin/facets", auth.Middleware(app.putFacets))
	srv.HandleFunc("POST /admin/facets/validate", auth.Middleware(app.validateFacets))
	return srv
}

func main() {
	flag.Parse()
	common.InitLogger("magic-search-writer", common.EnvOr("LOG_ENV", "production"))
	common.SetLogLevel(os.Getenv("LOG_LEVEL"))

	var auth AuthHandler
	if *mockAuth {
		log.Warn().Msg("running with mock auth")
		auth = &MockAuth{}
	} else {
		googleAuth, err := NewGoogleAuth()
		if err != nil {
			log.Fatal().Err(err).Msg("auth setup failed")
		}
		auth = googleAuth
	}

	var store types.FacetStorage
	var hooks []common.ShutdownHook
	if *facetsFile != "" {
		store = storage.NewFileStorage(*facetsFile)
	} else {
		if redisUrl == "" {
			log.Fatal().Msg("no redis url provided")
		}
		redisStore := storage.NewRedisStorage(storage.NewRedisClient(redisUrl, redisPassword, 0), region)
		store = redisStore
		hooks = append(hooks, func(ctx context.Context) error {
			return redisStore.Close()
		})
	}

	app := &WriterApp{store: store}
	if rabbitUrl != "" {
		sender, err := NewAmqpSender(rabbitUrl, region)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbit")
		}
		app.sender = sender
		hooks = append(hooks, func(ctx context.Context) error {
			return sender.Close()
		})
	} else {
		log.Warn().Msg("RABBIT_URL not set, changes are not broadcast")
	}

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      15 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	server := common.NewServerWithTimeouts(&http.Server{
		Addr:    *listenAddress,
		Handler: routes(app, auth),
	}, timeouts)
	common.RunServerWithShutdown(server, "facet writer", timeouts.Shutdown, timeouts.Hook, hooks...)
}
