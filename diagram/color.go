package diagram

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// NormalizeColor resolves a colour name ("navy") or hex string ("#1A7A4C")
// into lower-case "#rrggbb". Unparseable input yields fallback.
func NormalizeColor(value, fallback string) string {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return fallback
	}
	c := tcell.GetColor(v)
	if c == tcell.ColorDefault || !c.Valid() {
		return fallback
	}
	hex := c.Hex()
	if hex < 0 {
		return fallback
	}
	return fmt.Sprintf("#%06x", hex)
}

// IsColor reports whether value parses as a colour.
func IsColor(value string) bool {
	return NormalizeColor(value, "") != ""
}
