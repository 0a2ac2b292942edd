package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"log"

	periphhost "periph.io/x/host/v3"

	"github.com/tactilab/braille.go/pkg/braille"
	"github.com/tactilab/braille.go/pkg/comm"
	"github.com/tactilab/braille.go/pkg/comm/mqtt"
	"github.com/tactilab/braille.go/pkg/config"
	displayctl "github.com/tactilab/braille.go/pkg/ctl/display"
	"github.com/tactilab/braille.go/pkg/display"
	fx "github.com/tactilab/braille.go/pkg/framework"
)

var (
	configFile string
	sim        bool
)

func init() {
	flag.StringVar(&configFile, "config", configFile, "Configuration file (YAML).")
	flag.BoolVar(&sim, "sim", sim, "Use in-memory drivers instead of GPIO.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalln(err)
	}

	var chain display.ShiftChain
	if sim {
		chain = display.NewMemChain()
	} else {
		if _, err = periphhost.Init(); err != nil {
			log.Fatalln(err)
		}
		pins := cfg.Display.Pins
		chain, err = display.NewGPIOChain(pins.Data, pins.Clock, pins.Latch, pins.Enable)
		if err != nil {
			log.Fatalln(err)
		}
	}
	outputs := cfg.Display.Cells * braille.DotsPerCell * display.OutputsPerDot
	fabric := display.NewFabric(chain, outputs)
	engine := display.NewEngine(fabric, cfg.Display.Cells, cfg.Timing.Settle())

	hostPort, err := openHostPort(cfg.Links.Host)
	if err != nil {
		log.Fatalln(err)
	}
	slatePort, err := comm.OpenSerial(cfg.Links.Slate.Device, cfg.Links.Slate.Baud)
	if err != nil {
		log.Fatalln(err)
	}

	hostLink := comm.NewLink("host", hostPort)
	slateLink := comm.NewLink("slate", slatePort)

	ctl := displayctl.New(hostLink, slateLink, engine, cfg.Matrix.Geometry())
	ctl.Heartbeat = cfg.Timing.Heartbeat()

	loop := fx.NewLoop()
	loop.Interval = cfg.Timing.Interval()
	loop.Add(ctl)
	loop.AddRunnable(hostLink.Receiver(hostPort), slateLink.Receiver(slatePort))

	runner := fx.NewRunner().HandleSignals()
	runner.Go(loop)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// openHostPort opens the host link endpoint: an MQTT bridge when a
// broker URL is configured, a serial device (or stdio) otherwise.
func openHostPort(link config.LinkConfig) (io.ReadWriter, error) {
	if link.MQTT == "" {
		return comm.OpenSerial(link.Device, link.Baud)
	}
	q, err := mqtt.NewQueueFromURL(link.MQTT)
	if err != nil {
		return nil, err
	}
	if err := q.Connect(); err != nil {
		return nil, err
	}
	return mqtt.ForController(q)
}
