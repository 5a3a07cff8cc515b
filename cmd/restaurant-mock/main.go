package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/logging"
	"github.com/nicolas-cahorel/P3-Mission/internal/seed"
)

func main() {
	var (
		port       = flag.String("port", "9099", "port to listen on")
		data       = flag.String("data", "testdata/tajmahal.yaml", "path to the YAML seed document")
		restaurant = flag.String("restaurant", "tajmahal", "restaurant id served by the mock")
		apiKey     = flag.String("api-key", "", "require this X-API-Key value when set")
		logLevel   = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	doc, err := seed.File{Path: *data}.Load(context.Background())
	if err != nil {
		logger.Fatal("load mock data", zap.String("path", *data), zap.Error(err))
	}

	addr := ":" + *port
	logger.Info("mock restaurant api listening",
		zap.String("addr", addr),
		zap.String("restaurant", *restaurant),
		zap.Int("reviews", len(doc.Reviews)),
		zap.Bool("details", doc.Restaurant != nil),
	)
	handler := newHandler(map[string]seed.Document{*restaurant: doc}, *apiKey, logger)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
