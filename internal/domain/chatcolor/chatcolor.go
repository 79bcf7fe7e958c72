// Package chatcolor models the host's section-sign color and format codes and
// the parsing used to recognise tiered items by their display names.
package chatcolor

import (
	"strings"
)

// Char is the section sign that prefixes every code.
const Char = '§'

// AltChar is the alternate prefix accepted in configuration files.
const AltChar = '&'

// Code is a single color or format code, stored as its code character.
type Code rune

// Colors and formats known to the host.
const (
	Black         Code = '0'
	DarkBlue      Code = '1'
	DarkGreen     Code = '2'
	DarkAqua      Code = '3'
	DarkRed       Code = '4'
	DarkPurple    Code = '5'
	Gold          Code = '6'
	Gray          Code = '7'
	DarkGray      Code = '8'
	Blue          Code = '9'
	Green         Code = 'a'
	Aqua          Code = 'b'
	Red           Code = 'c'
	LightPurple   Code = 'd'
	Yellow        Code = 'e'
	White         Code = 'f'
	Magic         Code = 'k'
	Bold          Code = 'l'
	Strikethrough Code = 'm'
	Underline     Code = 'n'
	Italic        Code = 'o'
	Reset         Code = 'r'
)

var names = map[Code]string{
	Black:         "BLACK",
	DarkBlue:      "DARK_BLUE",
	DarkGreen:     "DARK_GREEN",
	DarkAqua:      "DARK_AQUA",
	DarkRed:       "DARK_RED",
	DarkPurple:    "DARK_PURPLE",
	Gold:          "GOLD",
	Gray:          "GRAY",
	DarkGray:      "DARK_GRAY",
	Blue:          "BLUE",
	Green:         "GREEN",
	Aqua:          "AQUA",
	Red:           "RED",
	LightPurple:   "LIGHT_PURPLE",
	Yellow:        "YELLOW",
	White:         "WHITE",
	Magic:         "MAGIC",
	Bold:          "BOLD",
	Strikethrough: "STRIKETHROUGH",
	Underline:     "UNDERLINE",
	Italic:        "ITALIC",
	Reset:         "RESET",
}

var byName = func() map[string]Code {
	m := make(map[string]Code, len(names))
	for c, n := range names {
		m[n] = c
	}
	return m
}()

// ByChar returns the code for a code character, case-insensitively.
func ByChar(r rune) (Code, bool) {
	c := Code(toLower(r))
	_, ok := names[c]
	return c, ok
}

// Parse accepts a code name ("DARK_RED", "dark red") or a single code
// character, with or without a prefix ("c", "&c").
func Parse(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	runes := []rune(s)
	if len(runes) == 2 && (runes[0] == AltChar || runes[0] == Char) {
		return ByChar(runes[1])
	}
	if len(runes) == 1 {
		return ByChar(runes[0])
	}
	key := strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(s))
	c, ok := byName[key]
	return c, ok
}

// String renders the code with its section-sign prefix.
func (c Code) String() string {
	return string([]rune{Char, rune(c)})
}

// Name returns the upper-case code name, or "" for unknown codes.
func (c Code) Name() string {
	return names[c]
}

// IsColor reports whether the code is a color rather than a format.
func (c Code) IsColor() bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || c == Reset
}

// IsFormat reports whether the code is a text format.
func (c Code) IsFormat() bool {
	_, ok := names[c]
	return ok && !c.IsColor()
}

// FirstColor returns the first code found in s. Any valid code counts,
// including formats.
func FirstColor(s string) (Code, bool) {
	runes := []rune(s)
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] == Char {
			return ByChar(runes[i+1])
		}
	}
	return 0, false
}

// LastColors returns the codes in effect at the end of s: the last color
// followed by any formats applied after it. A color resets formats.
func LastColors(s string) string {
	runes := []rune(s)
	var out []rune
	for i := len(runes) - 2; i >= 0; i-- {
		if runes[i] != Char {
			continue
		}
		c, ok := ByChar(runes[i+1])
		if !ok {
			continue
		}
		out = append([]rune{Char, rune(c)}, out...)
		if c.IsColor() {
			break
		}
	}
	return string(out)
}

// LastColor returns the first code of LastColors(s).
func LastColor(s string) (Code, bool) {
	colors := []rune(LastColors(s))
	if len(colors) < 2 {
		return 0, false
	}
	return ByChar(colors[1])
}

// Translate replaces the alternate prefix with the section sign wherever it
// precedes a valid code character.
func Translate(s string) string {
	runes := []rune(s)
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] != AltChar {
			continue
		}
		if _, ok := ByChar(runes[i+1]); ok {
			runes[i] = Char
			runes[i+1] = toLower(runes[i+1])
		}
	}
	return string(runes)
}

// Strip removes every code from s.
func Strip(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		if runes[i] == Char && i+1 < len(runes) {
			if _, ok := ByChar(runes[i+1]); ok {
				i++
				continue
			}
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
