package service

import (
	"context"

	"go-qc-inspector/internal/config"
	apperrors "go-qc-inspector/internal/errors"
	"go-qc-inspector/internal/labels"
	"go-qc-inspector/internal/observer"
	"go-qc-inspector/internal/plot"
	"go-qc-inspector/internal/repository"

	"github.com/sirupsen/logrus"
)

// DistributionService renders a box plot per metric comparing the real and
// photocopy groups
type DistributionService interface {
	Run(ctx context.Context) (*DistributionReport, error)
}

// DistributionReport summarises one run
type DistributionReport struct {
	Rows          int
	RealRows      int
	PhotocopyRows int
	Metrics       []MetricReport
}

type distributionService struct {
	cfg     *config.Config
	repo    repository.QCRepository
	store   repository.ArtifactStore
	plotter FigurePlotter
	events  observer.Subject
	log     *logrus.Entry
}

// NewDistributionService creates a new distribution plotting service
func NewDistributionService(
	cfg *config.Config,
	repo repository.QCRepository,
	store repository.ArtifactStore,
	plotter FigurePlotter,
	events observer.Subject,
	log *logrus.Entry,
) DistributionService {
	return &distributionService{
		cfg:     cfg,
		repo:    repo,
		store:   store,
		plotter: plotter,
		events:  events,
		log:     log,
	}
}

// Run loads the inputs and writes one figure per metric. The first failure
// ends the run.
func (s *distributionService) Run(ctx context.Context) (*DistributionReport, error) {
	tbl, err := s.repo.LoadTable(ctx, s.cfg.InputPaths)
	if err != nil {
		return nil, err
	}
	groups := classify(s.log, tbl, labels.Vocabulary(s.cfg.RealLabels), labels.Vocabulary(s.cfg.PhotocopyLabels))

	report := &DistributionReport{
		Rows:          tbl.Len(),
		RealRows:      groups.Real.Len(),
		PhotocopyRows: groups.Photocopy.Len(),
	}

	for _, metric := range tbl.Metrics(s.cfg.IncludeVerdictAsMetric) {
		run := startMetric(ctx, s.events, metric)

		reals, err := groups.Real.Values(metric)
		if err != nil {
			return report, run.failed(err)
		}
		fakes, err := groups.Photocopy.Values(metric)
		if err != nil {
			return report, run.failed(err)
		}

		for i, values := range [][]float64{reals, fakes} {
			summary := plot.Summarize(values)
			s.log.WithFields(logrus.Fields{
				"metric":   metric,
				"group":    s.cfg.GroupNames[i],
				"count":    summary.Count,
				"dropped":  summary.Dropped,
				"median":   summary.Median,
				"iqr":      summary.IQR,
				"outliers": summary.Outliers,
			}).Debug("Group summary")
		}

		path, err := s.store.Path(plot.FileName(metric))
		if err != nil {
			return report, run.failed(apperrors.NewIOError("cannot place figure", err))
		}
		if err := s.plotter.Plot(metric, reals, fakes, path); err != nil {
			return report, run.failed(apperrors.NewRenderError("failed to render box plot", err).
				WithDetails("metric=%s", metric))
		}
		run.wrote(path)
		run.completed(1)

		report.Metrics = append(report.Metrics, MetricReport{Metric: metric, Artifacts: []string{path}})
	}
	return report, nil
}
