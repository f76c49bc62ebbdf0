// backend is the upstream application: it keeps the WebSocket link to the
// robot relay, tracks visitor presence, fans signals out to any other
// configured robots, and serves the HTTP facade for manual triggering.
package main

import (
	"context"
	"flag"
	"os"
	osignal "os/signal"
	"syscall"

	"github.com/nebulatalks/go-cobot/internal/config"
	"github.com/nebulatalks/go-cobot/internal/log"
	"github.com/nebulatalks/go-cobot/pkg/gesture"
	"github.com/nebulatalks/go-cobot/pkg/relay"
	"github.com/nebulatalks/go-cobot/pkg/signal"
	"github.com/nebulatalks/go-cobot/pkg/upstream"
	"github.com/nebulatalks/go-cobot/pkg/web"
)

func main() {
	config.LoadDotenv()

	addr := flag.String("addr", config.BackendAddr(), "facade listen address")
	relayURL := flag.String("relay", config.RelayURL(), "robot relay WebSocket URL")
	robotsFile := flag.String("robots", "robots.json", "fan-out robot configuration file")
	debug := flag.Bool("debug", false, "enable verbose debug logging")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	gestures := gesture.NewRegistry()
	gestures.LoadBuiltIn()

	signals := signal.NewService(*robotsFile)
	if err := signals.Load(); err != nil {
		log.Error("failed to load robot configurations", "error", err)
		os.Exit(1)
	}
	defer signals.Close()

	client := upstream.NewClient(*relayURL)
	presence := upstream.NewPresence(client)

	srv := web.NewServer(*addr, client, presence, gestures, signals)
	client.OnResponse = func(resp relay.ResponseEnvelope) {
		srv.AddActivity("robot", resp.Result.Message)
	}

	ctx, cancel := osignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go client.Run(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen() }()

	log.Info("backend ready", "addr", *addr, "relay", *relayURL)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	_ = srv.Shutdown()
}
