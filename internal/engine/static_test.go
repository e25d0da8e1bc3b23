package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cric-stats/harvest/internal/cache"
	"github.com/cric-stats/harvest/internal/ratelimit"
	"github.com/cric-stats/harvest/pkg/models"
)

const battingPage = `<!DOCTYPE html>
<html>
<head><title>Stats</title></head>
<body>
	<div class="team-ranking-wrapper player">
		<div class="player-name-trw"><p>Virat</p><span>Kohli</span></div>
		<table>
			<tr>
				<td><p>111</p></td><td><p>191</p></td><td><p>53.62</p></td>
				<td><p>55.56</p></td><td><p>254</p></td><td><p>1027</p></td>
				<td><p>30</p></td><td><p>31</p></td><td><p>30</p></td>
				<td><p>9,230</p></td>
			</tr>
		</table>
	</div>
	<div class="stats-data-table-player">
		<table>
			<tr><th>Rank</th><th>Player</th></tr>
			<tr>
				<td><h6>2</h6></td><td><h6>Rohit Sharma</h6></td>
				<td><p>67</p></td><td><p>116</p></td><td><p>46.54</p></td>
				<td><p>57.05</p></td><td><p>212</p></td><td><p>517</p></td>
				<td><p>88</p></td><td><p>18</p></td><td><p>12</p></td>
				<td>4,301</td>
			</tr>
		</table>
	</div>
</body>
</html>`

func newTestStaticExtractor() *StaticExtractor {
	return NewStaticExtractor(
		&http.Client{Timeout: 5 * time.Second},
		cache.NewPageCache(1024*1024),
		ratelimit.NewHostLimiter(100, 100),
		5*time.Second,
		time.Minute,
		"harvest-test/1.0",
	)
}

func TestStaticExtractor_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(battingPage))
	}))
	defer server.Close()

	ex := newTestStaticExtractor()
	rows, err := ex.Extract(context.Background(), models.Source{Format: "odi", URL: server.URL})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(rows), rows)
	}

	featured := rows[0]
	if featured[0] != "1" {
		t.Errorf("featured rank = %q, want forced \"1\"", featured[0])
	}
	if featured[1] != "Virat Kohli" {
		t.Errorf("featured name = %q, want \"Virat Kohli\"", featured[1])
	}
	if featured[11] != "9,230" {
		t.Errorf("featured runs cell = %q", featured[11])
	}

	body := rows[1]
	if body[0] != "2" || body[1] != "Rohit Sharma" {
		t.Errorf("body row start = %v", body[:2])
	}
	// Cell without a sub-element falls back to its own text.
	if body[11] != "4,301" {
		t.Errorf("body runs cell = %q, want \"4,301\"", body[11])
	}
}

func TestStaticExtractor_NoFeaturedBlock(t *testing.T) {
	page := `<html><body>
	<div class="stats-data-table-player"><table>
		<tr><td><h6>2</h6></td><td><h6>Someone</h6></td><td><p>10</p></td></tr>
	</table></div>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	ex := newTestStaticExtractor()
	rows, err := ex.Extract(context.Background(), models.Source{Format: "test", URL: server.URL})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "Someone" {
		t.Errorf("rows = %v, want only the body row", rows)
	}
}

func TestStaticExtractor_TableNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer server.Close()

	ex := newTestStaticExtractor()
	_, err := ex.Extract(context.Background(), models.Source{Format: "test", URL: server.URL})
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("err = %v, want ErrTableNotFound", err)
	}
}

func TestStaticExtractor_UsesPageCache(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(battingPage))
	}))
	defer server.Close()

	ex := newTestStaticExtractor()
	src := models.Source{Format: "odi", URL: server.URL}
	if _, err := ex.Extract(context.Background(), src); err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	if _, err := ex.Extract(context.Background(), src); err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (second fetch served from cache)", hits)
	}
}

func TestStaticExtractor_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	ex := newTestStaticExtractor()
	_, err := ex.Extract(context.Background(), models.Source{Format: "test", URL: server.URL})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestStaticExtractor_Name(t *testing.T) {
	if got := newTestStaticExtractor().Name(); got != "StaticExtractor" {
		t.Errorf("Name() = %q", got)
	}
}
