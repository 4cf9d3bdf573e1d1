package service

import (
	"context"
	"image"
	"time"

	"go-qc-inspector/internal/labels"
	"go-qc-inspector/internal/observer"
	"go-qc-inspector/internal/table"

	"github.com/sirupsen/logrus"
)

// ImageDecoder decodes the images behind a list of references, in order
type ImageDecoder interface {
	DecodeAll(ctx context.Context, paths []string) ([]image.Image, error)
}

// FigurePlotter renders one distribution comparison per metric
type FigurePlotter interface {
	Plot(metric string, reals, fakes []float64, path string) error
}

// MetricReport describes the artifacts produced for one metric
type MetricReport struct {
	Metric    string
	Artifacts []string
	Skipped   bool
}

// classify partitions the whole table and reports ambiguous rows
func classify(log *logrus.Entry, tbl *table.Table, reals, photocopies labels.Vocabulary) labels.Groups {
	groups := labels.Partition(tbl.All(), reals, photocopies)

	log.WithFields(logrus.Fields{
		"rows":       tbl.Len(),
		"real":       groups.Real.Len(),
		"photocopy":  groups.Photocopy.Len(),
		"overlap":    groups.Overlap.Len(),
		"unlabelled": groups.Unlabelled.Len(),
	}).Info("Rows classified")

	if n := groups.Overlap.Len(); n > 0 {
		log.WithFields(logrus.Fields{
			"count":   n,
			"example": groups.Overlap.Row(0).FilePath,
		}).Warn("Rows match both label vocabularies and are counted in both groups")
	}
	if n := groups.Unlabelled.Len(); n > 0 {
		log.WithFields(logrus.Fields{
			"count":   n,
			"example": groups.Unlabelled.Row(0).FilePath,
		}).Warn("Rows match neither label vocabulary and are excluded")
	}
	return groups
}

// metricRun publishes the lifecycle events of one metric
type metricRun struct {
	ctx    context.Context
	events observer.Subject
	metric string
	start  time.Time
}

func startMetric(ctx context.Context, events observer.Subject, metric string) *metricRun {
	events.NotifyObservers(ctx, observer.PipelineEvent{
		EventType: observer.MetricStarted,
		Metric:    metric,
	})
	return &metricRun{ctx: ctx, events: events, metric: metric, start: time.Now()}
}

func (m *metricRun) decoded(count int, took time.Duration) {
	m.events.NotifyObservers(m.ctx, observer.PipelineEvent{
		EventType: observer.ImagesDecoded,
		Metric:    m.metric,
		Count:     count,
		Duration:  took,
	})
}

func (m *metricRun) wrote(path string) {
	m.events.NotifyObservers(m.ctx, observer.PipelineEvent{
		EventType: observer.ArtifactWritten,
		Metric:    m.metric,
		Artifact:  path,
	})
}

func (m *metricRun) skipped(reason string, fields map[string]interface{}) {
	m.events.NotifyObservers(m.ctx, observer.PipelineEvent{
		EventType:    observer.MetricSkipped,
		Metric:       m.metric,
		ErrorMessage: reason,
		Metadata:     fields,
	})
}

func (m *metricRun) completed(artifacts int) {
	m.events.NotifyObservers(m.ctx, observer.PipelineEvent{
		EventType: observer.MetricCompleted,
		Metric:    m.metric,
		Count:     artifacts,
		Duration:  time.Since(m.start),
	})
}

func (m *metricRun) failed(err error) error {
	m.events.NotifyObservers(m.ctx, observer.PipelineEvent{
		EventType:    observer.MetricFailed,
		Metric:       m.metric,
		Duration:     time.Since(m.start),
		ErrorMessage: err.Error(),
	})
	return err
}
