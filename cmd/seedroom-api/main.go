package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seedroom-project/backend/internal/controllers"
	"github.com/seedroom-project/backend/internal/relay"
)

func main() {
	ctx := context.Background()
	ctx, _ = signal.NotifyContext(ctx, os.Interrupt)

	app := &cli.App{
		Name: "seedroom-api",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Value: false,
				EnvVars: []string{
					"SEEDROOM_API_DEBUG",
				},
			},
			&cli.StringFlag{
				Name:  "http-listen-address",
				Value: "127.0.0.1:5000",
				EnvVars: []string{
					"SEEDROOM_API_HTTP_LISTEN_ADDRESS",
				},
			},
			&cli.BoolFlag{
				Name:  "lenient-rooms",
				Usage: "auto-create rooms on join instead of rejecting unknown ones",
				Value: false,
				EnvVars: []string{
					"SEEDROOM_API_LENIENT_ROOMS",
				},
			},
			&cli.BoolFlag{
				Name:  "skip-integrity-check",
				Usage: "relay messages without verifying their HMAC tag",
				Value: false,
				EnvVars: []string{
					"SEEDROOM_API_SKIP_INTEGRITY_CHECK",
				},
			},
			&cli.DurationFlag{
				Name:  "room-ttl",
				Value: 2 * time.Hour,
				EnvVars: []string{
					"SEEDROOM_API_ROOM_TTL",
				},
			},
			&cli.DurationFlag{
				Name:  "session-ttl",
				Value: time.Hour,
				EnvVars: []string{
					"SEEDROOM_API_SESSION_TTL",
				},
			},
		},
		Before: func(cctx *cli.Context) (err error) {
			err = setupLogging(cctx.Bool("debug"))
			return
		},
		Action: entrypoint,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		zap.L().Fatal("unhandled error", zap.Error(err))
	}
}

func setupLogging(debugMode bool) error {
	var cfg zap.Config

	if debugMode {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level.SetLevel(zapcore.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Development = false
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level.SetLevel(zapcore.InfoLevel)
	}

	cfg.OutputPaths = []string{
		"stdout",
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)

	return nil
}

func entrypoint(cctx *cli.Context) (err error) {
	defer func() { _ = zap.L().Sync() }()

	opts := relay.Options{
		RequireMembershipPrecheck: !cctx.Bool("lenient-rooms"),
		EnforceIntegrity:          !cctx.Bool("skip-integrity-check"),
	}

	rooms := relay.NewRoomStore(cctx.Duration("room-ttl"))
	sessions := relay.NewSessionStore(cctx.Duration("session-ttl"))
	hub := relay.NewHub()
	dispatcher := relay.NewDispatcher(opts, rooms, sessions, hub)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	})

	if cctx.Bool("debug") {
		(&controllers.GoDebugController{}).Register(router)
	}
	(&controllers.HealthController{}).Register(router)
	(&controllers.RoomController{Rooms: rooms, Sessions: sessions, Options: opts}).Register(router)
	(&controllers.RelayController{Dispatcher: dispatcher}).Register(router)

	// Clients derive keys in the browser and talk from arbitrary origins.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	srv := &http.Server{
		Addr:         cctx.String("http-listen-address"),
		Handler:      cors(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serverDone := make(chan interface{})
	go func() {
		zap.L().Info("serving requests",
			zap.String("addr", "http://"+srv.Addr),
			zap.Bool("lenient_rooms", cctx.Bool("lenient-rooms")),
			zap.Bool("enforce_integrity", opts.EnforceIntegrity))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("failed to listen for http requests", zap.Error(err))
		}
		close(serverDone)
	}()

	select {
	case <-serverDone:
	case <-cctx.Context.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// All state is ephemeral by design; wipe key material before exiting.
	rooms.WipeAll()
	sessions.WipeAll()
	zap.L().Info("stores wiped, shutting down")

	return
}
