// gesture plays a named built-in gesture directly over the serial port,
// for arm bring-up without the relay.
//
// Usage: gesture [-port /dev/ttyAMA0] [-list] <name>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nebulatalks/go-cobot/internal/config"
	"github.com/nebulatalks/go-cobot/internal/log"
	"github.com/nebulatalks/go-cobot/pkg/executor"
	"github.com/nebulatalks/go-cobot/pkg/gesture"
	"github.com/nebulatalks/go-cobot/pkg/mycobot"
)

func main() {
	config.LoadDotenv()

	serialPort := flag.String("port", config.SerialPort(), "robot serial device")
	baud := flag.Int("baud", config.SerialBaud(), "robot serial baud rate")
	speed := flag.String("speed", "normal", "gesture pacing: normal or fast")
	list := flag.Bool("list", false, "list available gestures and exit")
	flag.Parse()

	log.Init("info")

	gestures := gesture.NewRegistry()
	gestures.LoadBuiltIn()

	if *list {
		for name, desc := range gestures.ListWithDescriptions() {
			fmt.Printf("%-12s %s\n", name, desc)
		}
		return
	}

	name := flag.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "usage: gesture [-port PORT] [-speed normal|fast] <name>")
		os.Exit(2)
	}

	driver, err := mycobot.Open(*serialPort, uint(*baud))
	if err != nil {
		log.Error("failed to connect to myCobot", "port", *serialPort, "error", err)
		os.Exit(1)
	}
	defer driver.Close()

	if err := driver.PowerOn(); err != nil {
		log.Error("power on failed", "error", err)
		os.Exit(1)
	}
	defer driver.PowerOff()

	exec := executor.New(driver, gestures)
	result := exec.Execute(executor.Command{Action: name, SpeedWord: *speed})
	if result.Status != "success" {
		log.Error("gesture failed", "message", result.Message)
		os.Exit(1)
	}
	log.Info("done", "message", result.Message)
}
