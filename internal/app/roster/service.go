// Package roster runs the convert and merge jobs over an auction list export.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/auction-roster/internal/classify"
	"github.com/preston-bernstein/auction-roster/internal/config"
	"github.com/preston-bernstein/auction-roster/internal/dataset"
	"github.com/preston-bernstein/auction-roster/internal/domain/players"
	"github.com/preston-bernstein/auction-roster/internal/logging"
	"github.com/preston-bernstein/auction-roster/internal/merge"
	"github.com/preston-bernstein/auction-roster/internal/metrics"
	"github.com/preston-bernstein/auction-roster/internal/normalize"
	"github.com/preston-bernstein/auction-roster/internal/sheet"
)

// Job names.
const (
	JobConvert = "convert"
	JobMerge   = "merge"
)

// Mirror receives a copy of the full collection after the JSON file is written.
type Mirror interface {
	Name() string
	SavePlayers(ctx context.Context, items []players.Player) error
}

// Summary is what a job reports back to its caller.
type Summary struct {
	Job      string
	Accepted int
	Total    int
	Skipped  int
	Report   dataset.Report
}

// Service coordinates the locator, normalizer and emitter for one configuration.
type Service struct {
	inputPath  string
	outputPath string
	reportPath string
	minFields  int
	policy     normalize.Policy

	logger   *slog.Logger
	recorder *metrics.Recorder
	mirrors  []Mirror
	now      func() time.Time
}

// NewService validates cfg and builds the classification and id policy it names.
func NewService(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, mirrors ...Mirror) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	classifier, err := classify.New(classify.Strategy(cfg.Roster.Classification), cfg.Roster.CategoryLookupTable)
	if err != nil {
		return nil, err
	}
	formatter, err := normalize.FormatterFor(cfg.Roster.IDFormat)
	if err != nil {
		return nil, err
	}
	return &Service{
		inputPath:  cfg.InputPath,
		outputPath: cfg.OutputPath,
		reportPath: cfg.EffectiveReportPath(),
		minFields:  cfg.Roster.MinFields,
		policy: normalize.Policy{
			Classifier:       classifier,
			Strict:           cfg.Roster.StrictCategoryMatching,
			IDFormatter:      formatter,
			DefaultBasePrice: cfg.Roster.DefaultBasePrice,
		},
		logger:   logger,
		recorder: recorder,
		mirrors:  mirrors,
		now:      time.Now,
	}, nil
}

// Convert rebuilds the output file from the input list, with category metadata.
func (s *Service) Convert(ctx context.Context) (Summary, error) {
	started := s.now()
	report := dataset.NewReport(JobConvert, s.inputPath, s.outputPath, started)

	summary, err := s.convert(ctx, &report)
	s.finish(JobConvert, started, &report, err)
	summary.Report = report
	return summary, err
}

// Merge appends input rows whose names are not yet in the output file.
func (s *Service) Merge(ctx context.Context) (Summary, error) {
	started := s.now()
	report := dataset.NewReport(JobMerge, s.inputPath, s.outputPath, started)

	summary, err := s.merge(ctx, &report)
	s.finish(JobMerge, started, &report, err)
	summary.Report = report
	return summary, err
}

func (s *Service) convert(ctx context.Context, report *dataset.Report) (Summary, error) {
	accepted, err := s.collect(ctx, JobConvert, true, report)
	if err != nil {
		return Summary{Job: JobConvert}, err
	}

	seen := make(map[string]struct{}, len(accepted))
	out := make([]players.Player, 0, len(accepted))
	for _, res := range accepted {
		if _, dup := seen[res.Player.ID]; dup {
			s.skipRow(JobConvert, report, res, normalize.SkipDuplicateID, "id already emitted")
			continue
		}
		seen[res.Player.ID] = struct{}{}
		out = append(out, *res.Player)
	}
	s.countAccepted(JobConvert, len(out))

	ds := players.Dataset{Categories: classify.DefaultCategories(), Players: out}
	if err := s.write(ctx, ds); err != nil {
		return Summary{Job: JobConvert}, err
	}
	report.Accepted = len(out)
	report.Total = len(out)
	return Summary{Job: JobConvert, Accepted: len(out), Total: len(out), Skipped: len(report.Skipped)}, nil
}

func (s *Service) merge(ctx context.Context, report *dataset.Report) (Summary, error) {
	existing, err := dataset.NewStore(s.outputPath).Load()
	if err != nil {
		return Summary{Job: JobMerge}, err
	}

	results, err := s.collect(ctx, JobMerge, false, report)
	if err != nil {
		return Summary{Job: JobMerge}, err
	}
	candidates := make([]players.Player, 0, len(results))
	for _, res := range results {
		candidates = append(candidates, *res.Player)
	}

	outcome := merge.Merge(existing.Players, candidates)
	for _, rej := range outcome.Rejected {
		s.skipRow(JobMerge, report, results[rej.Index], rej.Reason, "already present in "+s.outputPath)
	}
	for _, re := range outcome.Reassigned {
		res := results[re.Index]
		report.Reassign(dataset.ReassignedRow{
			Line:   res.Line,
			Serial: res.Serial,
			Name:   re.Name,
			From:   re.From,
			To:     re.To,
		})
		logging.Warn(s.logger, "player id reassigned",
			logging.FieldJob, JobMerge,
			logging.FieldLine, res.Line,
			logging.FieldSerial, res.Serial,
			"from", re.From,
			"to", re.To,
		)
	}
	s.countAccepted(JobMerge, len(outcome.Added))

	ds := players.Dataset{Categories: existing.Categories, Players: outcome.Players, Extra: existing.Extra}
	if err := s.write(ctx, ds); err != nil {
		return Summary{Job: JobMerge}, err
	}
	report.Accepted = len(outcome.Added)
	report.Total = len(outcome.Players)
	return Summary{
		Job:      JobMerge,
		Accepted: len(outcome.Added),
		Total:    len(outcome.Players),
		Skipped:  len(report.Skipped),
	}, nil
}

// collect locates and normalizes every data row, returning the accepted ones.
// Rejected rows are logged and added to the report.
func (s *Service) collect(ctx context.Context, job string, requireLastName bool, report *dataset.Report) ([]normalize.Result, error) {
	loc, err := sheet.Open(s.inputPath, s.minFields)
	if err != nil {
		return nil, err
	}
	defer loc.Close()

	policy := s.policy
	policy.RequireLastName = requireLastName
	norm := normalize.New(policy)

	var accepted []normalize.Result
	for loc.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.RowsRead++
		res := norm.Normalize(loc.Row())
		if res.Skipped() {
			s.skipRow(job, report, res, res.Skip, res.Detail)
			continue
		}
		accepted = append(accepted, res)
	}
	if err := loc.Err(); err != nil {
		return nil, fmt.Errorf("read input %s: %w", s.inputPath, err)
	}

	for reason, n := range loc.Discarded() {
		report.Discarded[reason] = n
	}
	if !loc.HeaderFound() {
		logging.Warn(s.logger, "header row not found",
			logging.FieldJob, job,
			logging.FieldPath, s.inputPath,
		)
	}
	logging.Debug(s.logger, "input scanned",
		logging.FieldJob, job,
		logging.FieldCount, report.RowsRead,
		"discarded", report.Discarded,
	)
	return accepted, nil
}

func (s *Service) write(ctx context.Context, ds players.Dataset) error {
	if err := dataset.NewStore(s.outputPath).Save(ds); err != nil {
		return err
	}
	return s.mirror(ctx, ds.Players)
}

// mirror copies the collection to each configured database. Failures are
// joined so one broken mirror does not hide another.
func (s *Service) mirror(ctx context.Context, items []players.Player) error {
	var errs []error
	for _, m := range s.mirrors {
		start := s.now()
		err := m.SavePlayers(ctx, items)
		s.recorder.RecordMirror(m.Name(), s.now().Sub(start), err)
		if err != nil {
			logging.Error(s.logger, "mirror write failed", err, "mirror", m.Name())
			errs = append(errs, fmt.Errorf("mirror %s: %w", m.Name(), err))
			continue
		}
		logging.Debug(s.logger, "mirror written", "mirror", m.Name(), logging.FieldCount, len(items))
	}
	return errors.Join(errs...)
}

func (s *Service) skipRow(job string, report *dataset.Report, res normalize.Result, reason normalize.SkipReason, detail string) {
	name := ""
	if res.Player != nil {
		name = res.Player.Name
	}
	report.Skip(dataset.SkippedRow{
		Line:   res.Line,
		Serial: res.Serial,
		Name:   name,
		Reason: string(reason),
		Detail: detail,
	})
	s.recorder.RecordRow(job, string(reason))
	logging.Warn(s.logger, "row skipped",
		logging.FieldJob, job,
		logging.FieldLine, res.Line,
		logging.FieldSerial, res.Serial,
		logging.FieldReason, string(reason),
		"detail", detail,
	)
}

func (s *Service) countAccepted(job string, n int) {
	for i := 0; i < n; i++ {
		s.recorder.RecordRow(job, metrics.OutcomeAccepted)
	}
}

// finish stamps the report, writes it when enabled, and records the run.
func (s *Service) finish(job string, started time.Time, report *dataset.Report, runErr error) {
	finished := s.now()
	report.FinishedAt = finished.UTC()
	duration := finished.Sub(started)
	s.recorder.RecordRun(job, duration, runErr)

	if runErr != nil {
		logging.Error(s.logger, "run failed", runErr,
			logging.FieldJob, job,
			logging.FieldDurationMS, duration.Milliseconds(),
		)
		return
	}
	if s.reportPath != "" {
		if err := dataset.WriteReport(s.reportPath, *report); err != nil {
			logging.Warn(s.logger, "report write failed", logging.FieldPath, s.reportPath, "err", err)
		}
	}
	logging.Info(s.logger, "run complete",
		logging.FieldJob, job,
		logging.FieldCount, report.Accepted,
		logging.FieldTotal, report.Total,
		"skipped", len(report.Skipped),
		logging.FieldDurationMS, duration.Milliseconds(),
	)
}
