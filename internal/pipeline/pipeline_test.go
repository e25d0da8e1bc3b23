package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/cric-stats/harvest/internal/engine"
	"github.com/cric-stats/harvest/pkg/models"
)

// fakeExtractor serves canned rows per format, standing in for both
// extraction strategies.
type fakeExtractor struct {
	name string
	rows map[string][]models.RawRow
	errs map[string]error
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Extract(_ context.Context, src models.Source) ([]models.RawRow, error) {
	if err := f.errs[src.Format]; err != nil {
		return nil, err
	}
	rows, ok := f.rows[src.Format]
	if !ok {
		return nil, engine.ErrTableNotFound
	}
	return rows, nil
}

// memLoader is an in-memory Loader capturing the store's uniqueness
// semantics: players unique by name, records unique by (player, format).
type memLoader struct {
	nextPlayerID int64
	players      map[string]int64
	batting      map[string]models.BattingStats
	bowling      map[string]models.BowlingStats
	failUpsert   map[string]bool // player names whose upsert errors
}

func newMemLoader() *memLoader {
	return &memLoader{
		players:    make(map[string]int64),
		batting:    make(map[string]models.BattingStats),
		bowling:    make(map[string]models.BowlingStats),
		failUpsert: make(map[string]bool),
	}
}

func (m *memLoader) FormatID(_ context.Context, token string) (int64, error) {
	switch token {
	case "test", "Test", "TEST":
		return 1, nil
	case "odi", "ODI", "Odi":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown format %q", token)
}

func (m *memLoader) Begin(context.Context) (LoadTx, error) {
	return &memTx{m: m}, nil
}

type memTx struct {
	m *memLoader
}

func (t *memTx) Begin(context.Context) (LoadTx, error) { return t, nil }
func (t *memTx) Commit(context.Context) error          { return nil }
func (t *memTx) Rollback(context.Context) error        { return nil }

func (t *memTx) ResolvePlayer(_ context.Context, name string) (int64, error) {
	if id, ok := t.m.players[name]; ok {
		return id, nil
	}
	t.m.nextPlayerID++
	t.m.players[name] = t.m.nextPlayerID
	return t.m.nextPlayerID, nil
}

func recordKey(playerID, formatID int64) string {
	return fmt.Sprintf("%d/%d", playerID, formatID)
}

func (t *memTx) UpsertBatting(_ context.Context, playerID, formatID int64, s models.BattingStats) error {
	for name, id := range t.m.players {
		if id == playerID && t.m.failUpsert[name] {
			return fmt.Errorf("injected failure for %s", name)
		}
	}
	t.m.batting[recordKey(playerID, formatID)] = s
	return nil
}

func (t *memTx) UpsertBowling(_ context.Context, playerID, formatID int64, s models.BowlingStats) error {
	t.m.bowling[recordKey(playerID, formatID)] = s
	return nil
}

func battingRow(rank, player, runs string) models.RawRow {
	return models.RawRow{rank, player, "111", "191", "53.62", "55.56", "254", "1027", "30", "31", "30", runs}
}

func bowlingRow(rank, player, wickets string) models.RawRow {
	return models.RawRow{rank, player, "132", "236", wickets, "29.65", "10/74", "2.69", "65.9", "18355"}
}

func newTestPipeline(t *testing.T, battingRows, bowlingRows map[string][]models.RawRow) (*Pipeline, *memLoader) {
	t.Helper()
	static := &fakeExtractor{name: "static", rows: battingRows}
	dynamic := &fakeExtractor{name: "dynamic", rows: bowlingRows}
	loader := newMemLoader()
	return New(static, dynamic, loader, t.TempDir()), loader
}

func TestRun_EndToEnd(t *testing.T) {
	batting := map[string][]models.RawRow{
		"odi": {
			battingRow("1", "Virat Kohli", "13848"),
			battingRow("2", "Rohit Sharma", "5000"),
		},
	}
	p, loader := newTestPipeline(t, batting, nil)

	res := p.Run(context.Background(), []models.Source{{Format: "odi", URL: "http://example.test/odi"}})

	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if got := res.TotalLoaded(); got != 2 {
		t.Fatalf("loaded = %d, want 2", got)
	}
	if len(loader.players) != 2 {
		t.Fatalf("players = %v, want 2", loader.players)
	}
	if len(loader.batting) != 2 {
		t.Fatalf("batting records = %d, want 2", len(loader.batting))
	}

	rohit := loader.batting[recordKey(loader.players["Rohit Sharma"], 2)]
	if rohit.Runs != 5000 {
		t.Errorf("Rohit runs = %d, want 5000", rohit.Runs)
	}
}

func TestRun_RerunUpdatesWithoutDuplicates(t *testing.T) {
	batting := map[string][]models.RawRow{
		"odi": {
			battingRow("1", "Virat Kohli", "13848"),
			battingRow("2", "Rohit Sharma", "5000"),
		},
	}
	p, loader := newTestPipeline(t, batting, nil)
	src := []models.Source{{Format: "odi", URL: "u"}}

	p.Run(context.Background(), src)

	// Source changed: Rohit's runs move, Kohli's do not.
	batting["odi"][1] = battingRow("2", "Rohit Sharma", "5500")
	p.Run(context.Background(), src)

	if len(loader.players) != 2 {
		t.Fatalf("players = %d, want still 2", len(loader.players))
	}
	if len(loader.batting) != 2 {
		t.Fatalf("batting records = %d, want still 2", len(loader.batting))
	}

	rohit := loader.batting[recordKey(loader.players["Rohit Sharma"], 2)]
	if rohit.Runs != 5500 {
		t.Errorf("Rohit runs = %d, want updated 5500", rohit.Runs)
	}
	kohli := loader.batting[recordKey(loader.players["Virat Kohli"], 2)]
	if kohli.Runs != 13848 {
		t.Errorf("Kohli runs = %d, want unchanged 13848", kohli.Runs)
	}
}

func TestRun_Idempotent(t *testing.T) {
	batting := map[string][]models.RawRow{
		"test": {battingRow("1", "Sachin Tendulkar", "15921")},
	}
	bowling := map[string][]models.RawRow{
		"test": {bowlingRow("1", "Anil Kumble", "619")},
	}
	p, loader := newTestPipeline(t, batting, bowling)
	src := []models.Source{{Format: "test", URL: "u"}}

	first := p.Run(context.Background(), src)
	second := p.Run(context.Background(), src)

	if first.TotalLoaded() != second.TotalLoaded() {
		t.Errorf("loaded drift: first %d, second %d", first.TotalLoaded(), second.TotalLoaded())
	}
	if len(loader.players) != 2 || len(loader.batting) != 1 || len(loader.bowling) != 1 {
		t.Errorf("state after rerun: players=%d batting=%d bowling=%d",
			len(loader.players), len(loader.batting), len(loader.bowling))
	}
}

func TestRun_RepeatedNameResolvesToSamePlayer(t *testing.T) {
	batting := map[string][]models.RawRow{
		"test": {battingRow("1", "Virat Kohli", "9230")},
		"odi":  {battingRow("1", "Virat Kohli", "13848")},
	}
	p, loader := newTestPipeline(t, batting, nil)

	p.Run(context.Background(), []models.Source{
		{Format: "test", URL: "u1"},
		{Format: "odi", URL: "u2"},
	})

	if len(loader.players) != 1 {
		t.Fatalf("players = %v, want single identity", loader.players)
	}
	if len(loader.batting) != 2 {
		t.Errorf("batting records = %d, want one per format", len(loader.batting))
	}
}

func TestRun_RejectedRowsCountedNotLoaded(t *testing.T) {
	batting := map[string][]models.RawRow{
		"odi": {
			battingRow("1", "Virat Kohli", "13848"),
			battingRow("2", "", "100"),
			battingRow("3", "nan", "100"),
			battingRow("4", "0", "100"),
		},
	}
	p, loader := newTestPipeline(t, batting, nil)

	res := p.Run(context.Background(), []models.Source{{Format: "odi", URL: "u"}})

	if got := res.TotalLoaded(); got != 1 {
		t.Errorf("loaded = %d, want 1", got)
	}
	if got := res.TotalSkipped(); got != 3 {
		t.Errorf("skipped = %d, want 3", got)
	}
	if len(loader.players) != 1 {
		t.Errorf("players = %v, rejected rows must not create identities", loader.players)
	}
}

func TestRun_PartialSourceFailure(t *testing.T) {
	// Test-format tables are absent; ODI is fine.
	batting := map[string][]models.RawRow{
		"odi": {battingRow("1", "Virat Kohli", "13848")},
	}
	bowling := map[string][]models.RawRow{
		"odi": {bowlingRow("1", "Anil Kumble", "337")},
	}
	p, loader := newTestPipeline(t, batting, bowling)

	res := p.Run(context.Background(), []models.Source{
		{Format: "test", URL: "u1"},
		{Format: "odi", URL: "u2"},
	})

	if len(res.Errors) != 0 {
		t.Fatalf("missing tables must not error the run: %v", res.Errors)
	}
	if got := res.TotalLoaded(); got != 2 {
		t.Errorf("loaded = %d, want 2 ODI rows", got)
	}
	var testLoaded int
	for _, c := range res.Combos {
		if c.Format == "test" {
			testLoaded += c.Loaded
			if !c.Missing {
				t.Errorf("test/%s combination not flagged missing", c.Kind)
			}
		}
	}
	if testLoaded != 0 {
		t.Errorf("test format loaded = %d, want 0", testLoaded)
	}
	if len(loader.players) != 2 {
		t.Errorf("players = %v", loader.players)
	}
}

func TestLoad_UpsertFailureSkipsRowOnly(t *testing.T) {
	batting := map[string][]models.RawRow{
		"odi": {
			battingRow("1", "Virat Kohli", "13848"),
			battingRow("2", "Rohit Sharma", "5000"),
		},
	}
	p, loader := newTestPipeline(t, batting, nil)
	loader.failUpsert["Virat Kohli"] = true

	res := p.Run(context.Background(), []models.Source{{Format: "odi", URL: "u"}})

	if got := res.TotalLoaded(); got != 1 {
		t.Errorf("loaded = %d, want 1 (failed unit rolled back, sibling row loaded)", got)
	}
	if got := res.TotalSkipped(); got != 1 {
		t.Errorf("skipped = %d, want 1", got)
	}
}

func TestLoad_UnknownFormatFailsBatch(t *testing.T) {
	batting := map[string][]models.RawRow{
		"t20": {battingRow("1", "Suryakumar Yadav", "2000")},
	}
	p, _ := newTestPipeline(t, batting, nil)

	res := p.Run(context.Background(), []models.Source{{Format: "t20", URL: "u"}})

	if res.TotalLoaded() != 0 {
		t.Errorf("loaded = %d, want 0", res.TotalLoaded())
	}
	if len(res.Errors) == 0 {
		t.Error("expected an error for the unresolvable format token")
	}
}

func TestLoadAll_MissingArtifactSkipsCombination(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil)

	res := p.LoadAll(context.Background(), []string{"test"},
		[]models.StatKind{models.KindBatting, models.KindBowling})

	if len(res.Errors) != 0 {
		t.Fatalf("missing artifacts must not error: %v", res.Errors)
	}
	for _, c := range res.Combos {
		if !c.Missing {
			t.Errorf("combination %s/%s not flagged missing", c.Kind, c.Format)
		}
	}
}
