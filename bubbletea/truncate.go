package bubbletea

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// truncate cuts s to at most width display columns, appending an ellipsis
// when anything was dropped. It measures grapheme clusters rather than
// runes so combining sequences and emoji are not split. Not ANSI-aware:
// callers must truncate before styling.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}

	var out []byte
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if used+w > width-1 {
			break
		}
		out = append(out, cluster...)
		used += w
	}
	return string(out) + "…"
}
