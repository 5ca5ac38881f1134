package roster

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/auction-roster/internal/classify"
	"github.com/preston-bernstein/auction-roster/internal/config"
	"github.com/preston-bernstein/auction-roster/internal/dataset"
	"github.com/preston-bernstein/auction-roster/internal/domain/players"
	"github.com/preston-bernstein/auction-roster/internal/metrics"
	"github.com/preston-bernstein/auction-roster/internal/normalize"
	"github.com/preston-bernstein/auction-roster/internal/testutil"
)

type stubMirror struct {
	name  string
	err   error
	items []players.Player
	calls int
}

func (m *stubMirror) Name() string { return m.name }
func (m *stubMirror) SavePlayers(_ context.Context, items []players.Player) error {
	m.calls++
	m.items = append([]players.Player(nil), items...)
	return m.err
}

func testConfig(t *testing.T, input string) config.Config {
	t.Helper()
	return config.Config{
		InputPath:  input,
		OutputPath: filepath.Join(t.TempDir(), "data", "players.json"),
		Roster: config.RosterConfig{
			DefaultBasePrice: 2_000_000,
			Classification:   config.ClassificationAuto,
			IDFormat:         config.IDFormatPadded,
			MinFields:        21,
		},
	}
}

func newTestService(t *testing.T, cfg config.Config, mirrors ...Mirror) (*Service, *metrics.Recorder) {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	svc, err := NewService(cfg, logger, rec, mirrors...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.now = testutil.NowAt(time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC))
	return svc, rec
}

func readReport(t *testing.T, path string) dataset.Report {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var r dataset.Report
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return r
}

func seedDataset(t *testing.T, path string, items ...players.Player) {
	t.Helper()
	if err := dataset.NewStore(path).Save(players.Dataset{Players: items}); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
}

func TestConvertWritesPlayersAndCategories(t *testing.T) {
	uncapped := testutil.CappedBowler("2", "Ashwani", "Kumar", "LEFT ARM Medium")
	uncapped.Set = "ZZ9"
	uncapped.Status = "Uncapped"
	noSurname := testutil.CappedBowler("3", "Someone", "", "RIGHT ARM Fast")

	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("1", "Jasprit", "Bumrah", "RIGHT ARM Fast"),
		uncapped,
		noSurname,
	))
	cfg := testConfig(t, input)
	svc, rec := newTestService(t, cfg)

	summary, err := svc.Convert(context.Background())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if summary.Accepted != 2 || summary.Total != 2 || summary.Skipped != 1 {
		t.Fatalf("expected 2 accepted and 1 skipped, got %+v", summary)
	}

	ds, err := dataset.NewStore(cfg.OutputPath).Load()
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(ds.Categories) != len(classify.DefaultCategories()) {
		t.Fatalf("expected category metadata, got %d", len(ds.Categories))
	}
	if len(ds.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(ds.Players))
	}
	if ds.Players[0].ID != "P001" || ds.Players[0].Category != classify.CategoryFastBowlers {
		t.Fatalf("unexpected first player %+v", ds.Players[0])
	}
	if ds.Players[1].ID != "P002" || ds.Players[1].Category != classify.CategoryUncapped {
		t.Fatalf("expected heuristic fallback for unknown set, got %+v", ds.Players[1])
	}

	report := readReport(t, cfg.OutputPath+".report.json")
	if report.Job != JobConvert || report.RowsRead != 3 || report.Accepted != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Reason != string(normalize.SkipMissingName) || report.Skipped[0].Serial != "3" {
		t.Fatalf("expected missing_name skip for serial 3, got %+v", report.Skipped)
	}
	if report.Discarded["banner"] == 0 {
		t.Fatalf("expected banner rows counted, got %v", report.Discarded)
	}

	snap := rec.Snapshot(JobConvert)
	if snap.Runs != 1 || snap.Rows[metrics.OutcomeAccepted] != 2 || snap.Rows[string(normalize.SkipMissingName)] != 1 {
		t.Fatalf("unexpected metrics %+v", snap)
	}
}

func TestConvertSkipsRepeatedSerial(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("7", "Jasprit", "Bumrah", "RIGHT ARM Fast"),
		testutil.CappedBowler("7", "Mohammed", "Shami", "RIGHT ARM Fast"),
	))
	cfg := testConfig(t, input)
	svc, _ := newTestService(t, cfg)

	summary, err := svc.Convert(context.Background())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if summary.Accepted != 1 {
		t.Fatalf("expected one player kept, got %d", summary.Accepted)
	}
	skipped := summary.Report.Skipped
	if len(skipped) != 1 || skipped[0].Reason != string(normalize.SkipDuplicateID) || skipped[0].Name != "Mohammed Shami" {
		t.Fatalf("expected duplicate id skip, got %+v", skipped)
	}
}

func TestConvertWithoutHeaderWritesEmptyRoster(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", "just a banner\n1,2,3\n")
	cfg := testConfig(t, input)
	svc, _ := newTestService(t, cfg)

	summary, err := svc.Convert(context.Background())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if summary.Accepted != 0 {
		t.Fatalf("expected no players, got %d", summary.Accepted)
	}
	ds, err := dataset.NewStore(cfg.OutputPath).Load()
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(ds.Players) != 0 {
		t.Fatalf("expected empty players, got %d", len(ds.Players))
	}
}

func TestConvertMissingInputFails(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing.csv"))
	svc, rec := newTestService(t, cfg)

	if _, err := svc.Convert(context.Background()); err == nil || !strings.Contains(err.Error(), "open input") {
		t.Fatalf("expected open input error, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output written, got %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath + ".report.json"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no report for failed run, got %v", err)
	}
	if snap := rec.Snapshot(JobConvert); snap.FailedRuns != 1 {
		t.Fatalf("expected failed run recorded, got %+v", snap)
	}
}

func TestMergeAddsOnlyNewNames(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("1", "rohit", "sharma", ""),
		testutil.CappedBowler("2", "Hardik", "Pandya", "RIGHT ARM Medium"),
	))
	cfg := testConfig(t, input)
	existing := testutil.SamplePlayer("P900", "Rohit Sharma")
	seedDataset(t, cfg.OutputPath, existing)
	svc, _ := newTestService(t, cfg)

	summary, err := svc.Merge(context.Background())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if summary.Accepted != 1 || summary.Total != 2 {
		t.Fatalf("expected 1 added and total 2, got %+v", summary)
	}

	ds, err := dataset.NewStore(cfg.OutputPath).Load()
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if ds.Players[0].ID != "P900" || ds.Players[1].Name != "Hardik Pandya" {
		t.Fatalf("expected existing first then Hardik Pandya, got %+v", ds.Players)
	}
	if len(summary.Report.Skipped) != 1 || summary.Report.Skipped[0].Reason != string(normalize.SkipDuplicateName) {
		t.Fatalf("expected duplicate_name skip, got %+v", summary.Report.Skipped)
	}
	if summary.Report.Skipped[0].Line == 0 {
		t.Fatalf("expected source line on merge rejection")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("2", "Hardik", "Pandya", "RIGHT ARM Medium"),
	))
	cfg := testConfig(t, input)
	seedDataset(t, cfg.OutputPath, testutil.SamplePlayer("P900", "Rohit Sharma"))
	svc, _ := newTestService(t, cfg)

	if _, err := svc.Merge(context.Background()); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	first, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	summary, err := svc.Merge(context.Background())
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if summary.Accepted != 0 || summary.Total != 2 {
		t.Fatalf("expected nothing added on rerun, got %+v", summary)
	}
	second, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected unchanged file on rerun")
	}
}

func TestMergeAcceptsMissingSurname(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("4", "Shahbaz", "", "SLOW LEFT ARM ORTHODOX"),
	))
	cfg := testConfig(t, input)
	seedDataset(t, cfg.OutputPath)
	svc, _ := newTestService(t, cfg)

	summary, err := svc.Merge(context.Background())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if summary.Accepted != 1 {
		t.Fatalf("expected single-name player accepted, got %+v", summary)
	}
}

func TestMergeRequiresExistingDataset(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("2", "Hardik", "Pandya", "RIGHT ARM Medium"),
	))
	cfg := testConfig(t, input)
	svc, rec := newTestService(t, cfg)

	_, err := svc.Merge(context.Background())
	if !errors.Is(err, dataset.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if snap := rec.Snapshot(JobMerge); snap.FailedRuns != 1 {
		t.Fatalf("expected failed merge recorded, got %+v", snap)
	}
}

func TestMirrorsReceiveFullCollection(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("1", "Jasprit", "Bumrah", "RIGHT ARM Fast"),
	))
	cfg := testConfig(t, input)
	good := &stubMirror{name: "good"}
	bad := &stubMirror{name: "bad", err: errors.New("db down")}
	svc, rec := newTestService(t, cfg, bad, good)

	_, err := svc.Convert(context.Background())
	if err == nil || !strings.Contains(err.Error(), "mirror bad") {
		t.Fatalf("expected mirror error, got %v", err)
	}
	if good.calls != 1 || len(good.items) != 1 {
		t.Fatalf("expected healthy mirror still written, got %+v", good)
	}
	if _, statErr := os.Stat(cfg.OutputPath); statErr != nil {
		t.Fatalf("expected JSON written before mirrors, got %v", statErr)
	}
	if snap := rec.Snapshot(JobConvert); snap.FailedRuns != 1 {
		t.Fatalf("expected mirror failure to fail the run, got %+v", snap)
	}
}

func TestReportCanBeDisabled(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("1", "Jasprit", "Bumrah", "RIGHT ARM Fast"),
	))
	cfg := testConfig(t, input)
	cfg.ReportPath = "none"
	svc, _ := newTestService(t, cfg)

	if _, err := svc.Convert(context.Background()); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath + ".report.json"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no report, got %v", err)
	}
}

func TestStrictLookupSkipsUnknownSets(t *testing.T) {
	row := testutil.CappedBowler("1", "Jasprit", "Bumrah", "RIGHT ARM Fast")
	row.Set = "ZZ9"
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(row))
	cfg := testConfig(t, input)
	cfg.Roster.Classification = config.ClassificationLookup
	cfg.Roster.StrictCategoryMatching = true
	svc, _ := newTestService(t, cfg)

	summary, err := svc.Convert(context.Background())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if summary.Accepted != 0 || len(summary.Report.Skipped) != 1 || summary.Report.Skipped[0].Reason != string(normalize.SkipUnknownSet) {
		t.Fatalf("expected unknown_set skip, got %+v", summary.Report.Skipped)
	}
}

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "in.csv")
	cfg.Roster.Classification = "random"
	if _, err := NewService(cfg, nil, nil); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestConvertHonoursCancelledContext(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("1", "Jasprit", "Bumrah", "RIGHT ARM Fast"),
	))
	cfg := testConfig(t, input)
	svc, _ := newTestService(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Convert(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMergeReassignsTakenIDForNewName(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("2", "rohit", "sharma", ""),
		testutil.CappedBowler("1", "Hardik", "Pandya", "RIGHT ARM Medium"),
	))
	cfg := testConfig(t, input)
	seedDataset(t, cfg.OutputPath, testutil.SamplePlayer("P001", "Rohit Sharma"))
	svc, _ := newTestService(t, cfg)

	summary, err := svc.Merge(context.Background())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if summary.Accepted != 1 || summary.Total != 2 {
		t.Fatalf("expected Hardik Pandya added, got %+v", summary)
	}

	ds, err := dataset.NewStore(cfg.OutputPath).Load()
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if ds.Players[0].ID != "P001" || ds.Players[1].ID != "P001-2" || ds.Players[1].Name != "Hardik Pandya" {
		t.Fatalf("expected new player under a free id, got %+v", ds.Players)
	}
	re := summary.Report.Reassigned
	if len(re) != 1 || re[0].From != "P001" || re[0].To != "P001-2" || re[0].Serial != "1" || re[0].Line == 0 {
		t.Fatalf("expected reassignment in report, got %+v", re)
	}
	if len(summary.Report.Skipped) != 1 || summary.Report.Skipped[0].Reason != string(normalize.SkipDuplicateName) {
		t.Fatalf("expected only the name duplicate skipped, got %+v", summary.Report.Skipped)
	}
}

func TestMergeKeepsUnknownKeysInExistingFile(t *testing.T) {
	input := testutil.WriteFile(t, "auction.csv", testutil.AuctionCSV(
		testutil.CappedBowler("2", "Hardik", "Pandya", "RIGHT ARM Medium"),
	))
	cfg := testConfig(t, input)
	existing := `{"players":[{"id":"P001","name":"Rohit Sharma","soldTo":"MI"}],"season":"2025"}`
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(existing), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}
	svc, _ := newTestService(t, cfg)

	if _, err := svc.Merge(context.Background()); err != nil {
		t.Fatalf("merge: %v", err)
	}
	raw, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, `"soldTo": "MI"`) || !strings.Contains(text, `"season": "2025"`) {
		t.Fatalf("expected unknown keys preserved, got %s", text)
	}
	if !strings.Contains(text, "Hardik Pandya") {
		t.Fatalf("expected new player appended, got %s", text)
	}
}
