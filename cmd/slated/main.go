package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	periphhost "periph.io/x/host/v3"

	"github.com/tactilab/braille.go/pkg/comm"
	"github.com/tactilab/braille.go/pkg/config"
	slatectl "github.com/tactilab/braille.go/pkg/ctl/slate"
	"github.com/tactilab/braille.go/pkg/display"
	fx "github.com/tactilab/braille.go/pkg/framework"
	"github.com/tactilab/braille.go/pkg/matrix"
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
	geo := cfg.Matrix.Geometry()

	var port matrix.Port
	var chain display.ShiftChain
	if sim {
		port = matrix.NewMemPort(geo)
		chain = display.NewMemChain()
	} else {
		if _, err = periphhost.Init(); err != nil {
			log.Fatalln(err)
		}
		port, err = matrix.NewGPIOPort(cfg.Matrix.RowPins, cfg.Matrix.ColPins, cfg.Timing.RowSettle())
		if err != nil {
			log.Fatalln(err)
		}
		pins := cfg.Matrix.LedPins
		chain, err = display.NewGPIOChain(pins.Data, pins.Clock, pins.Latch, pins.Enable)
		if err != nil {
			log.Fatalln(err)
		}
	}

	leds := display.NewFabric(chain, geo.Rows*geo.Cols)
	if err := leds.Enable(); err != nil {
		log.Fatalln(err)
	}
	scanner := matrix.NewScanner(port, geo, cfg.Timing.Debounce())

	ctlPort, err := comm.OpenSerial(cfg.Links.Slate.Device, cfg.Links.Slate.Baud)
	if err != nil {
		log.Fatalln(err)
	}
	link := comm.NewLink("ctl", ctlPort)

	loop := fx.NewLoop()
	loop.Interval = cfg.Timing.Interval()
	loop.Add(slatectl.New(link, scanner, leds))
	loop.AddRunnable(link.Receiver(ctlPort))

	runner := fx.NewRunner().HandleSignals()
	runner.Go(loop)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
