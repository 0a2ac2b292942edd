package lineproto

import "strings"

// Message is a parsed protocol line. Concrete types below.
type Message interface {
	isMessage()
}

// ButtonPress is a slate "BTN:row,col" event.
type ButtonPress struct{ Row, Col int }

// ButtonRelease is a slate "REL:row,col" event.
type ButtonRelease struct{ Row, Col int }

// LedSet is a host "LED:row,col,state" command.
type LedSet struct {
	Row, Col int
	On       bool
}

// SetPhase is a host "PHASE:n" command.
type SetPhase struct{ N int }

// DisplayText is a host "DISPLAY:text" command.
type DisplayText struct{ Text string }

// MirrorText is a host "MIRROR:text" command.
type MirrorText struct{ Text string }

// Keyword-only commands.
type (
	Clear   struct{}
	Enable  struct{}
	Disable struct{}
	Test    struct{}
	Status  struct{}
	Reset   struct{}
)

// Unknown carries an unrecognized line. It is acknowledged explicitly,
// never silently dropped.
type Unknown struct{ Raw string }

func (ButtonPress) isMessage()   {}
func (ButtonRelease) isMessage() {}
func (LedSet) isMessage()        {}
func (SetPhase) isMessage()      {}
func (DisplayText) isMessage()   {}
func (MirrorText) isMessage()    {}
func (Clear) isMessage()         {}
func (Enable) isMessage()        {}
func (Disable) isMessage()       {}
func (Test) isMessage()          {}
func (Status) isMessage()        {}
func (Reset) isMessage()         {}
func (Unknown) isMessage()       {}

// Atoi is the tolerant integer parser used for all numeric protocol
// fields: optional sign followed by digits; anything malformed yields 0.
// On the wire 0 is indistinguishable from a parse failure - a known
// protocol weakness kept for compatibility with deployed firmware.
func Atoi(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		return -n
	}
	return n
}

// Parse converts one framed line into a Message. Empty lines yield nil.
func Parse(line string) Message {
	if line == "" {
		return nil
	}
	keyword, arg := line, ""
	if i := strings.IndexByte(line, ':'); i >= 0 {
		keyword, arg = line[:i], line[i+1:]
	}
	switch keyword {
	case "BTN":
		f := fields(arg, 2)
		return ButtonPress{Row: Atoi(f[0]), Col: Atoi(f[1])}
	case "REL":
		f := fields(arg, 2)
		return ButtonRelease{Row: Atoi(f[0]), Col: Atoi(f[1])}
	case "LED":
		f := fields(arg, 3)
		return LedSet{Row: Atoi(f[0]), Col: Atoi(f[1]), On: Atoi(f[2]) != 0}
	case "PHASE":
		return SetPhase{N: Atoi(arg)}
	case "DISPLAY":
		return DisplayText{Text: arg}
	case "MIRROR":
		return MirrorText{Text: arg}
	case "CLEAR":
		return Clear{}
	case "ENABLE":
		return Enable{}
	case "DISABLE":
		return Disable{}
	case "TEST":
		return Test{}
	case "STATUS":
		return Status{}
	case "RESET":
		return Reset{}
	}
	return Unknown{Raw: line}
}

// fields splits a comma-separated argument list, padding with empty
// strings so missing fields parse as 0.
func fields(arg string, n int) []string {
	f := strings.Split(arg, ",")
	for len(f) < n {
		f = append(f, "")
	}
	return f
}
