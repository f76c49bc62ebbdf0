// cobot-server is the gesture relay that runs on the myCobot's companion
// Pi. It accepts one upstream WebSocket peer and plays gesture commands
// against the arm over its serial link.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/nebulatalks/go-cobot/internal/config"
	"github.com/nebulatalks/go-cobot/internal/log"
	"github.com/nebulatalks/go-cobot/pkg/gesture"
	"github.com/nebulatalks/go-cobot/pkg/mycobot"
	"github.com/nebulatalks/go-cobot/pkg/relay"
)

func main() {
	config.LoadDotenv()

	addr := flag.String("addr", config.RelayAddr(), "relay listen address")
	serialPort := flag.String("port", config.SerialPort(), "robot serial device")
	baud := flag.Int("baud", config.SerialBaud(), "robot serial baud rate")
	noRobot := flag.Bool("no-robot", false, "run without the arm (commands fail fast)")
	debug := flag.Bool("debug", false, "enable verbose debug logging")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	var driver mycobot.Driver
	if !*noRobot {
		d, err := mycobot.Open(*serialPort, uint(*baud))
		if err != nil {
			// Serve anyway; every command answers with an error result
			// until the arm is back.
			log.Error("failed to connect to myCobot", "port", *serialPort, "error", err)
		} else {
			driver = d
			defer d.Close()
			log.Info("myCobot connected", "port", *serialPort, "baud", *baud)
		}
	}

	gestures := gesture.NewRegistry()
	gestures.LoadBuiltIn()
	log.Info("gesture library loaded", "count", gestures.Count())

	srv := relay.NewServer(*addr, driver, gestures)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen() }()

	log.Info("waiting for upstream connection", "addr", *addr)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	_ = srv.Shutdown()
	if driver != nil {
		if err := driver.PowerOff(); err != nil {
			log.Warn("power off failed", "error", err)
		}
	}
}
