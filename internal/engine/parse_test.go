package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const bowlingDOM = `<!DOCTYPE html>
<html>
<body>
	<div class="team-ranking-wrapper player">
		<div class="player-name-trw"><p>Anil</p><span>Kumble</span></div>
		<table>
			<tr>
				<td><p>132</p></td><td><p>236</p></td><td><p>619</p></td>
				<td><p>29.65</p></td><td>10/74
wickets</td><td><p>2.69</p></td>
				<td><p>65.9</p></td><td><p>18,355</p></td>
			</tr>
		</table>
	</div>
	<div class="stats-data-table-player">
		<table>
			<tbody>
				<tr>
					<td>2</td>
					<td><h6>Ravichandran</h6><span>Ashwin</span></td>
					<td><h6>106</h6></td><td><h6>200</h6></td><td><h6>537</h6></td>
					<td><h6>23.93</h6></td><td>7/59
career best</td><td><h6>2.83</h6></td>
					<td><h6>50.7</h6></td><td><h6>12,853</h6></td>
				</tr>
				<tr>
					<td>3</td>
					<td></td>
				</tr>
			</tbody>
		</table>
	</div>
</body>
</html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestParseBowlingDocument(t *testing.T) {
	rows, err := parseBowlingDocument(parseDoc(t, bowlingDOM))
	if err != nil {
		t.Fatalf("parseBowlingDocument: %v", err)
	}

	// The 2-cell row is an incomplete render and must be discarded.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(rows), rows)
	}

	featured := rows[0]
	if featured[0] != "1" || featured[1] != "Anil Kumble" {
		t.Errorf("featured row start = %v", featured[:2])
	}
	// No sub-element: only the first line of the cell text is the stat.
	if featured[6] != "10/74" {
		t.Errorf("featured bowling figure cell = %q, want \"10/74\"", featured[6])
	}

	body := rows[1]
	if body[0] != "2" {
		t.Errorf("body rank = %q", body[0])
	}
	if body[1] != "Ravichandran Ashwin" {
		t.Errorf("body name = %q, want joined name parts", body[1])
	}
	if body[6] != "7/59" {
		t.Errorf("body bowling figure cell = %q, want first line \"7/59\"", body[6])
	}
	if body[2] != "106" {
		t.Errorf("body matches cell = %q, want h6 text", body[2])
	}
}

func TestParseBowlingDocument_TableNotFound(t *testing.T) {
	_, err := parseBowlingDocument(parseDoc(t, `<html><body></body></html>`))
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("err = %v, want ErrTableNotFound", err)
	}
}

func TestParseBowlingDocument_FeaturedOmittedWhenAbsent(t *testing.T) {
	page := `<html><body><div class="stats-data-table-player"><table><tbody>
		<tr><td>2</td><td><h6>Someone</h6></td><td><h6>10</h6></td></tr>
	</tbody></table></div></body></html>`
	rows, err := parseBowlingDocument(parseDoc(t, page))
	if err != nil {
		t.Fatalf("parseBowlingDocument: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "Someone" {
		t.Errorf("rows = %v, want only the body row", rows)
	}
}

func TestFeaturedName(t *testing.T) {
	doc := parseDoc(t, `<div class="wrap"><div class="player-name-trw"><p> Jasprit </p><span>Bumrah</span></div></div>`)
	got := featuredName(doc.Find("div.wrap"))
	if got != "Jasprit Bumrah" {
		t.Errorf("featuredName = %q", got)
	}

	// Last-name element missing: no trailing space.
	doc = parseDoc(t, `<div class="wrap"><div class="player-name-trw"><p>Sachin</p></div></div>`)
	if got := featuredName(doc.Find("div.wrap")); got != "Sachin" {
		t.Errorf("featuredName = %q, want \"Sachin\"", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("7/59\ncareer best"); got != "7/59" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("  42  "); got != "42" {
		t.Errorf("firstLine = %q", got)
	}
}
