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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bjo163/shopadmin/config"
	"github.com/bjo163/shopadmin/internal/adminapi"
	"github.com/bjo163/shopadmin/internal/app"
	"github.com/bjo163/shopadmin/internal/webserver"
)

var (
	h        bool
	initdb   bool
	conffile string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&initdb, "initdb", false, "drop and recreate the database schema, then exit")
	flag.StringVar(&conffile, "c", "shopadmin.yml", "config file")
}

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		return
	}

	cfg := config.LoadConfig(conffile)
	if err := os.MkdirAll(cfg.System.Workdir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "workdir %s: %v\n", cfg.System.Workdir, err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if initdb {
		application.InitDb()
		zap.S().Info("database schema recreated")
		return
	}

	ws := webserver.Init(application)
	adminapi.RegisterRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		zap.S().Info("shutdown signal received")
		return ws.Echo().Shutdown(context.Background())
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
		zap.S().Errorf("server exited: %v", err)
	}
}
