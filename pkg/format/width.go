package format

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// displayWidth measures a string in terminal display cells: East Asian wide
// characters count as two, and grapheme clusters (emoji sequences, combining
// marks) count once per cluster.
func displayWidth(s string) int {
	width := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		width += runewidth.StringWidth(cluster)
	}
	return width
}
