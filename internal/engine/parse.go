package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors for the source's leaderboard markup. The top-ranked player is
// rendered in a featured block outside the main table, in different
// markup, so the two are located separately.
const (
	selFeaturedBlock = "div.team-ranking-wrapper.player"
	selFeaturedName  = "div.player-name-trw"
	selTableWrapper  = "div.stats-data-table-player"
)

// featuredName reconstructs the featured player's display name from its
// two-part markup: a first-name element and a separate last-name element,
// joined with a space.
func featuredName(block *goquery.Selection) string {
	nameDiv := block.Find(selFeaturedName).First()
	first := strings.TrimSpace(nameDiv.Find("p").First().Text())
	last := strings.TrimSpace(nameDiv.Find("span").First().Text())
	return strings.TrimSpace(first + " " + last)
}

// firstLine returns the first newline-separated line of a cell's text.
// Cells on the interactive page can stack several sub-values; only the
// first is the primary stat.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if line, _, found := strings.Cut(s, "\n"); found {
		return strings.TrimSpace(line)
	}
	return s
}

// subElementText returns the trimmed text of the first matching
// sub-element, or "" if none has text.
func subElementText(cell *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		found := ""
		cell.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := strings.TrimSpace(s.Text()); t != "" {
				found = t
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}
