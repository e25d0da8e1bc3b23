package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cric-stats/harvest/pkg/models"
)

func TestPath(t *testing.T) {
	got := Path("csv_files", models.KindBatting, "ODI")
	want := filepath.Join("csv_files", "batting_most_runs_odi.csv")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}

	got = Path("out", models.KindBowling, "Test")
	want = filepath.Join("out", "bowling_most_wickets_test.csv")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, models.KindBatting, "odi")

	rows := []models.RawRow{
		{"1", "Virat Kohli", "111", "191", "53.62", "55.56", "254", "1027", "30", "31", "30", "9230"},
		{"2", "Rohit Sharma", "67", "116", "46.54", "57.05", "212", "517", "88", "18", "12", "5000"},
	}

	if err := Write(path, models.KindBatting, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("round trip mismatch:\ngot  %v\nwant %v", got, rows)
	}
}

func TestWrite_PadsShortRows(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, models.KindBowling, "test")

	// Featured rows on a partially rendered page can be short.
	rows := []models.RawRow{{"1", "Anil Kumble", "132"}}
	if err := Write(path, models.KindBowling, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 1 || len(got[0]) != len(models.BowlingColumns) {
		t.Fatalf("got %v", got)
	}
	if got[0][3] != "nan" {
		t.Errorf("padded cell = %q, want absence marker", got[0][3])
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.csv"))
	if !os.IsNotExist(err) {
		t.Errorf("err = %v, want file-not-exist", err)
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, models.KindBatting, "test")
	if err := Write(path, models.KindBatting, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	rows, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}
