// Package braille maps characters to 6-dot cell patterns.
//
// Bit i (0-indexed) of a pattern means "dot i+1 raised". Dots are numbered
// per the standard cell:
//
//	1 4
//	2 5
//	3 6
package braille

import "strconv"

// DotsPerCell is the number of dots in one Braille cell.
const DotsPerCell = 6

// PatternMask keeps the 6 significant bits of a pattern.
const PatternMask = 0x3F

// Special cell patterns.
const (
	// CapitalSign (dot 6) precedes each uppercase letter.
	CapitalSign = 0x20
	// NumberSign (dots 3,4,5,6) precedes a run of digits.
	NumberSign = 0x3C
	// Space is the blank cell.
	Space = 0x00
)

// alphabet holds patterns for A-Z.
var alphabet = [26]byte{
	0x01, // A (dot 1)
	0x03, // B (dots 1,2)
	0x09, // C (dots 1,4)
	0x19, // D (dots 1,4,5)
	0x11, // E (dots 1,5)
	0x0B, // F (dots 1,2,4)
	0x1B, // G (dots 1,2,4,5)
	0x13, // H (dots 1,2,5)
	0x0A, // I (dots 2,4)
	0x1A, // J (dots 2,4,5)
	0x05, // K (dots 1,3)
	0x07, // L (dots 1,2,3)
	0x0D, // M (dots 1,3,4)
	0x1D, // N (dots 1,3,4,5)
	0x15, // O (dots 1,3,5)
	0x0F, // P (dots 1,2,3,4)
	0x1F, // Q (dots 1,2,3,4,5)
	0x17, // R (dots 1,2,3,5)
	0x0E, // S (dots 2,3,4)
	0x1E, // T (dots 2,3,4,5)
	0x25, // U (dots 1,3,6)
	0x27, // V (dots 1,2,3,6)
	0x3A, // W (dots 2,4,5,6)
	0x2D, // X (dots 1,3,4,6)
	0x3D, // Y (dots 1,3,4,5,6)
	0x35, // Z (dots 1,3,5,6)
}

// digits holds patterns for 0-9. Digits reuse the patterns of J,A-I and
// are distinguished by a preceding NumberSign.
var digits = [10]byte{
	0x1A, // 0 (as J)
	0x01, // 1 (as A)
	0x03, // 2 (as B)
	0x09, // 3 (as C)
	0x19, // 4 (as D)
	0x11, // 5 (as E)
	0x0B, // 6 (as F)
	0x1B, // 7 (as G)
	0x13, // 8 (as H)
	0x0A, // 9 (as I)
}

var punctuation = map[byte]byte{
	' ':  Space,
	'!':  0x16, // dots 2,3,5
	'\'': 0x04, // dot 3
	'-':  0x30, // dots 3,6
	'.':  0x32, // dots 2,5,6
	',':  0x0C, // dot 2
	'?':  0x26, // dots 2,6
	';':  0x06, // dots 2,3
	':':  0x12, // dots 2,5
	'(':  0x23, // dots 1,2,6
	')':  0x1C, // dots 3,4,5
	'"':  0x2C, // dots 2,3,6
	'/':  0x2E, // dots 2,3,4,6
	'*':  0x2A, // dots 2,4,6
	'@':  0x24, // dots 3,6
}

// CharPattern converts a character to its cell pattern. Unrecognized
// characters map to the blank cell; that fallback is deliberate, not an
// error.
func CharPattern(c byte) byte {
	switch {
	case c >= 'a' && c <= 'z':
		return alphabet[c-'a']
	case c >= 'A' && c <= 'Z':
		return alphabet[c-'A']
	case c >= '0' && c <= '9':
		return digits[c-'0']
	}
	return punctuation[c]
}

// Mirror reflects a pattern across the vertical axis of the cell,
// swapping the dot columns (1<->4, 2<->5, 3<->6). Mirror is its own
// inverse for every 6-bit pattern.
func Mirror(p byte) byte {
	p &= PatternMask
	return ((p & 0x07) << 3) | ((p >> 3) & 0x07)
}

// Dots renders a pattern as a dot list like "1,3,5", or "none" for the
// blank cell. Used in logs and STATUS reports.
func Dots(p byte) string {
	var s string
	for i := 0; i < DotsPerCell; i++ {
		if p&(1<<uint(i)) != 0 {
			if s != "" {
				s += ","
			}
			s += strconv.Itoa(i + 1)
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
