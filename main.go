package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lguibr/paddlebounce/bollywood"
	"github.com/lguibr/paddlebounce/game"
	"github.com/lguibr/paddlebounce/logging"
	"github.com/lguibr/paddlebounce/server"
	"github.com/lguibr/paddlebounce/utils"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var configPath, addr string
	flag.StringVar(&configPath, "config", "", "path to a TOML config file (defaults apply when empty)")
	flag.StringVar(&addr, "addr", "", "listen address, overrides the config, e.g. :3001")
	flag.Parse()

	cfg := utils.DefaultConfig()
	if configPath != "" {
		loaded, err := utils.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	engine := bollywood.NewEngine(bollywood.WithLogger(logger.Named("engine")))
	producer, err := game.NewMatchActorProducer(cfg, game.MatchOptions{Logger: logger.Named("match")})
	if err != nil {
		logger.Fatal("invalid match config", zap.Error(err))
	}
	matchPID := engine.Spawn(bollywood.NewProps(producer))

	wsServer := server.New(engine, matchPID, logger.Named("server"))
	srv := &http.Server{Addr: cfg.Addr, Handler: wsServer.Routes()}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Int("tickRate", cfg.TickRate))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	engine.Shutdown(shutdownTimeout)
}
