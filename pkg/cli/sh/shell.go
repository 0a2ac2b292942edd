// Package sh provides the ishell backed interactive console talking
// the line protocol to a display controller.
package sh

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/tactilab/braille.go/pkg/comm"
	"github.com/tactilab/braille.go/pkg/comm/mqtt"
	"github.com/tactilab/braille.go/pkg/lineproto"
)

// Shell wraps ishell with a connected protocol port.
type Shell struct {
	Shell *ishell.Shell

	port io.ReadWriter
}

const shellKey = "$shell"

var (
	// flags

	serialDevice = "-"
	serialBaud   = 115200
	mqttURL      = ""
	evalOnly     bool

	commands = []*ishell.Cmd{
		&PhaseCmd,
		&DisplayCmd,
		&MirrorCmd,
		&ClearCmd,
		&EnableCmd,
		&DisableCmd,
		&TestCmd,
		&StatusCmd,
		&ResetCmd,
		&LedCmd,
		&SendCmd,
	}
)

func init() {
	flag.StringVar(&serialDevice, "serial", serialDevice, "Serial device of the controller, - for stdio.")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, overrides -serial.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// New creates a shell connected to the configured transport.
func New() (*Shell, error) {
	port, err := openPort()
	if err != nil {
		return nil, err
	}
	s := &Shell{Shell: ishell.New(), port: port}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("braille > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	go s.printIncoming()
	return s, nil
}

func openPort() (io.ReadWriter, error) {
	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			return nil, err
		}
		if err := q.Connect(); err != nil {
			return nil, err
		}
		return mqtt.ForHost(q)
	}
	return comm.OpenSerial(serialDevice, serialBaud)
}

// printIncoming echoes controller lines above the prompt.
func (s *Shell) printIncoming() {
	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		s.Shell.Printf("<< %s\n", scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		s.Shell.Printf("connection lost: %v\n", err)
	}
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// SendLine writes one protocol line to the controller.
func (s *Shell) SendLine(line string) error {
	_, err := io.WriteString(s.port, line+"\n")
	return err
}

func sendFromCtx(c *ishell.Context, line string) {
	if err := ShellFrom(c).SendLine(line); err != nil {
		c.Err(err)
	}
}

// Main is the braillesh entrypoint.
func Main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	s, err := New()
	if err != nil {
		log.Fatalln(err)
	}
	if evalOnly {
		for _, arg := range flag.Args() {
			if err := s.SendLine(arg); err != nil {
				log.Fatalln(err)
			}
		}
		return
	}
	s.Shell.Run()
}

// Command definitions. Each maps a console verb onto one protocol line.

var PhaseCmd = ishell.Cmd{
	Name: "phase",
	Help: "phase <0-6>: select the tutoring phase",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Err(fmt.Errorf("usage: phase <0-6>"))
			return
		}
		sendFromCtx(c, "PHASE:"+c.Args[0])
	},
}

var DisplayCmd = ishell.Cmd{
	Name: "display",
	Help: "display <text>: show text on the cells",
	Func: func(c *ishell.Context) {
		sendFromCtx(c, "DISPLAY:"+strings.Join(c.Args, " "))
	},
}

var MirrorCmd = ishell.Cmd{
	Name: "mirror",
	Help: "mirror <text>: show text mirrored for write-side practice",
	Func: func(c *ishell.Context) {
		sendFromCtx(c, "MIRROR:"+strings.Join(c.Args, " "))
	},
}

var ClearCmd = ishell.Cmd{
	Name: "clear",
	Help: "blank every cell",
	Func: func(c *ishell.Context) { sendFromCtx(c, "CLEAR") },
}

var EnableCmd = ishell.Cmd{
	Name: "enable",
	Help: "enable the display outputs",
	Func: func(c *ishell.Context) { sendFromCtx(c, "ENABLE") },
}

var DisableCmd = ishell.Cmd{
	Name: "disable",
	Help: "disable the display outputs",
	Func: func(c *ishell.Context) { sendFromCtx(c, "DISABLE") },
}

var TestCmd = ishell.Cmd{
	Name: "test",
	Help: "raise every dot and light every LED",
	Func: func(c *ishell.Context) { sendFromCtx(c, "TEST") },
}

var StatusCmd = ishell.Cmd{
	Name: "status",
	Help: "request a status block",
	Func: func(c *ishell.Context) { sendFromCtx(c, "STATUS") },
}

var ResetCmd = ishell.Cmd{
	Name: "reset",
	Help: "reset actuators and cursors",
	Func: func(c *ishell.Context) { sendFromCtx(c, "RESET") },
}

var LedCmd = ishell.Cmd{
	Name: "led",
	Help: "led <row> <col> <0|1>: set one slate indicator",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 3 {
			c.Err(fmt.Errorf("usage: led <row> <col> <0|1>"))
			return
		}
		row := lineproto.Atoi(c.Args[0])
		col := lineproto.Atoi(c.Args[1])
		sendFromCtx(c, lineproto.FormatLed(row, col, lineproto.Atoi(c.Args[2]) != 0))
	},
}

var SendCmd = ishell.Cmd{
	Name: "send",
	Help: "send <line>: send a raw protocol line",
	Func: func(c *ishell.Context) {
		sendFromCtx(c, strings.Join(c.Args, " "))
	},
}
