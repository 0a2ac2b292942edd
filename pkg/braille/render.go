package braille

// Render lays text out over a fixed number of cells and returns one
// pattern per cell, blank-padded.
//
// Digits are preceded by a one-time NumberSign that stays in effect until
// a non-digit appears. Each uppercase letter is individually preceded by a
// CapitalSign; capitalization is per character, not per run. Layout stops
// as soon as the next glyph, together with any prefix cell it needs,
// would not fit.
func Render(text string, cells int) []byte {
	out := make([]byte, cells)
	cell := 0
	numberMode := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		var prefix []byte
		switch {
		case c >= '0' && c <= '9':
			if !numberMode {
				prefix = []byte{NumberSign}
				numberMode = true
			}
		case c >= 'A' && c <= 'Z':
			numberMode = false
			prefix = []byte{CapitalSign}
		default:
			numberMode = false
		}
		if cell+len(prefix)+1 > cells {
			break
		}
		for _, p := range prefix {
			out[cell] = p
			cell++
		}
		out[cell] = CharPattern(c)
		cell++
	}
	return out
}

// RenderMirrored renders text normally and then mirrors every cell in
// place. This is the geometric reflection used for write-side practice;
// it is not a glyph-by-glyph mirrored lookup.
func RenderMirrored(text string, cells int) []byte {
	out := Render(text, cells)
	for i, p := range out {
		out[i] = Mirror(p)
	}
	return out
}
