package service

import (
	"context"
	"fmt"
	"image"
	"time"

	"go-qc-inspector/internal/config"
	apperrors "go-qc-inspector/internal/errors"
	"go-qc-inspector/internal/labels"
	"go-qc-inspector/internal/observer"
	"go-qc-inspector/internal/plot"
	"go-qc-inspector/internal/repository"
	"go-qc-inspector/internal/table"
	"go-qc-inspector/internal/visualise"
	"go-qc-inspector/pkg/validation"

	"github.com/sirupsen/logrus"
)

// ExtremesService annotates the QC table with verdicts and renders the real
// group's images sorted by each metric
type ExtremesService interface {
	Run(ctx context.Context) (*ExtremesReport, error)
}

// ExtremesReport summarises one run
type ExtremesReport struct {
	Rows      int
	RealRows  int
	Passed    int
	OutputCSV string
	Metrics   []MetricReport
}

type extremesService struct {
	cfg       *config.Config
	repo      repository.QCRepository
	store     repository.ArtifactStore
	decoder   ImageDecoder
	validator *validation.VerdictValidator
	grid      *visualise.Grid
	events    observer.Subject
	log       *logrus.Entry
}

// NewExtremesService creates a new extremes visualisation service
func NewExtremesService(
	cfg *config.Config,
	repo repository.QCRepository,
	store repository.ArtifactStore,
	decoder ImageDecoder,
	validator *validation.VerdictValidator,
	grid *visualise.Grid,
	events observer.Subject,
	log *logrus.Entry,
) ExtremesService {
	return &extremesService{
		cfg:       cfg,
		repo:      repo,
		store:     store,
		decoder:   decoder,
		validator: validator,
		grid:      grid,
		events:    events,
		log:       log,
	}
}

// Run loads the inputs, writes the annotated CSV and then the grid
// snapshots of every metric. The first failure ends the run.
func (s *extremesService) Run(ctx context.Context) (*ExtremesReport, error) {
	tbl, err := s.repo.LoadTable(ctx, s.cfg.InputPaths)
	if err != nil {
		return nil, err
	}

	groups := classify(s.log, tbl, labels.Vocabulary(s.cfg.RealLabels), labels.Vocabulary(s.cfg.PhotocopyLabels))
	reals := groups.Real

	passed, err := s.validator.Annotate(tbl, s.cfg.VerdictColumn)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"column": s.cfg.VerdictColumn,
		"passed": passed,
		"failed": tbl.Len() - passed,
	}).Info("QC verdicts computed")

	csvPath := s.cfg.OutputPath(s.cfg.OutputCSVPath)
	if err := s.repo.SaveTable(ctx, csvPath, tbl); err != nil {
		return nil, err
	}
	s.events.NotifyObservers(ctx, observer.PipelineEvent{
		EventType: observer.ArtifactWritten,
		Artifact:  csvPath,
		Count:     tbl.Len(),
	})

	report := &ExtremesReport{
		Rows:      tbl.Len(),
		RealRows:  reals.Len(),
		Passed:    passed,
		OutputCSV: csvPath,
	}

	for _, metric := range tbl.Metrics(s.cfg.IncludeVerdictAsMetric) {
		mr, err := s.renderMetric(ctx, reals, metric)
		if err != nil {
			return report, err
		}
		report.Metrics = append(report.Metrics, mr)
	}
	return report, nil
}

func (s *extremesService) renderMetric(ctx context.Context, group *table.View, metric string) (MetricReport, error) {
	run := startMetric(ctx, s.events, metric)
	report := MetricReport{Metric: metric}

	chunks := visualise.PlanChunks(group.Len(), s.cfg.Slices)
	if len(chunks) == 0 || chunks[0].Len() == 0 {
		run.skipped("group smaller than slice count", map[string]interface{}{
			"group_size": group.Len(),
			"slices":     s.cfg.Slices,
		})
		report.Skipped = true
		return report, nil
	}

	values, err := group.Values(metric)
	if err != nil {
		return report, run.failed(err)
	}
	summary := plot.Summarize(values)
	s.log.WithFields(logrus.Fields{
		"metric":   metric,
		"outliers": summary.Outliers,
		"lower":    summary.LowerFence,
		"upper":    summary.UpperFence,
	}).Info("Outlier summary")

	perm := visualise.SortPermutation(values)

	decodeStart := time.Now()
	images, err := s.decoder.DecodeAll(ctx, group.FilePaths())
	if err != nil {
		return report, run.failed(err)
	}
	run.decoded(len(images), time.Since(decodeStart))

	sortedImages := make([]image.Image, len(perm))
	sortedValues := make([]float64, len(perm))
	for i, idx := range perm {
		sortedImages[i] = images[idx]
		sortedValues[i] = values[idx]
	}

	for _, c := range chunks {
		canvas, err := s.grid.Render(sortedImages[c.Start:c.End], sortedValues[c.Start:c.End])
		if err != nil {
			return report, run.failed(apperrors.NewRenderError("failed to render grid", err).
				WithDetails("metric=%s chunk=%d", metric, c.Index))
		}
		path, err := s.store.SaveImage(ctx, visualise.SnapshotName(metric, c.Index), canvas)
		if err != nil {
			return report, run.failed(err)
		}
		run.wrote(path)
		report.Artifacts = append(report.Artifacts, path)
	}

	run.completed(len(report.Artifacts))
	return report, nil
}

func (r *ExtremesReport) String() string {
	return fmt.Sprintf("%d rows, %d real, %d passed, %d metrics", r.Rows, r.RealRows, r.Passed, len(r.Metrics))
}
