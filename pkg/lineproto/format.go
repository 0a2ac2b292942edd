package lineproto

import "fmt"

// Formatting helpers for every outbound event. Lines are returned
// without the trailing newline; the link writer appends it.

// Controller -> host events.

func FormatReady() string          { return "READY" }
func FormatPhaseSet(n int) string  { return fmt.Sprintf("PHASE_SET:%d", n) }
func FormatDisplayed(text string) string {
	return "DISPLAYED:" + text
}
func FormatMirrored(text string) string {
	return "MIRRORED:" + text
}
func FormatCleared() string         { return "CLEARED" }
func FormatDisplayEnabled() string  { return "DISPLAY_ENABLED" }
func FormatDisplayDisabled() string { return "DISPLAY_DISABLED" }
func FormatHeartbeat() string       { return "HEARTBEAT" }
func FormatTestComplete() string    { return "TEST_COMPLETE" }

func FormatButtonPress(row, col, cell, dot int) string {
	return fmt.Sprintf("BUTTON_PRESS:%d,%d,%d,%d", row, col, cell, dot)
}

func FormatButtonRelease(row, col, cell, dot int) string {
	return fmt.Sprintf("BUTTON_RELEASE:%d,%d,%d,%d", row, col, cell, dot)
}

func FormatDotPressed(cell, dot int) string {
	return fmt.Sprintf("DOT_PRESSED:%d,%d", cell, dot)
}

func FormatGameInput(cell, dot int) string {
	return fmt.Sprintf("GAME_INPUT:%d,%d", cell, dot)
}

func FormatError(msg string) string {
	return "ERROR:" + msg
}

// FormatUnknownCommand acknowledges an unrecognized line.
func FormatUnknownCommand(raw string) string {
	return FormatError("Unknown command: " + raw)
}

// Status blocks bracket free-form "key:value" lines.

func FormatStatusStart() string { return "STATUS_START" }
func FormatStatusEnd() string   { return "STATUS_END" }

// Slate -> controller events and controller -> slate commands.

func FormatBtn(row, col int) string { return fmt.Sprintf("BTN:%d,%d", row, col) }
func FormatRel(row, col int) string { return fmt.Sprintf("REL:%d,%d", row, col) }

func FormatLed(row, col int, on bool) string {
	state := 0
	if on {
		state = 1
	}
	return fmt.Sprintf("LED:%d,%d,%d", row, col, state)
}
