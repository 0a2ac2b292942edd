package comm

import (
	"io"
	"os"

	"github.com/goburrow/serial"
)

// OpenSerial opens a serial device for a link. The device "-" selects
// stdio, which is handy for loopback testing and for driving a daemon
// from a terminal.
func OpenSerial(device string, baud int) (io.ReadWriteCloser, error) {
	if device == "-" {
		return stdio{}, nil
	}
	return serial.Open(&serial.Config{
		Address:  device,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
	})
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }
