package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	panic("boom")
}

func (panickingObserver) GetObserverName() string {
	return "panicking"
}

func TestEventPublisher_SynchronousDelivery(t *testing.T) {
	p := NewEventPublisher()
	m := NewMetricsObserver()
	p.Subscribe(panickingObserver{})
	p.Subscribe(m)

	ctx := context.Background()
	p.NotifyObservers(ctx, PipelineEvent{EventType: MetricStarted, Metric: "checkFrameSharpness"})
	p.NotifyObservers(ctx, PipelineEvent{EventType: ImagesDecoded, Count: 6})
	p.NotifyObservers(ctx, PipelineEvent{EventType: ArtifactWritten, Artifact: "checkFrameSharpness 0.png"})
	p.NotifyObservers(ctx, PipelineEvent{EventType: MetricCompleted, Duration: 40 * time.Millisecond})
	p.NotifyObservers(ctx, PipelineEvent{EventType: MetricStarted})
	p.NotifyObservers(ctx, PipelineEvent{EventType: MetricSkipped})

	got := m.GetMetrics()
	want := RunMetrics{
		MetricsStarted:   2,
		MetricsCompleted: 1,
		MetricsSkipped:   1,
		ImagesDecoded:    6,
		ArtifactsWritten: 1,
		MetricDuration:   40 * time.Millisecond,
	}
	if got != want {
		t.Errorf("GetMetrics() = %+v, want %+v", got, want)
	}
	if got.Fields()["avg_metric_ms"] != int64(40) {
		t.Errorf("Unexpected average: %v", got.Fields()["avg_metric_ms"])
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	p := NewEventPublisher()
	m := NewMetricsObserver()
	p.Subscribe(m)
	p.Unsubscribe(m)

	p.NotifyObservers(context.Background(), PipelineEvent{EventType: MetricStarted})
	if m.GetMetrics().MetricsStarted != 0 {
		t.Error("Expected unsubscribed observer to receive nothing")
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	o := NewLoggingObserver(l.WithField("run_id", "abc"))
	o.OnEvent(context.Background(), PipelineEvent{
		EventType:    MetricFailed,
		Metric:       "checkSpecularReflection",
		ErrorMessage: "decode: failed to read image",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q", buf.String())
	}
	if entry["level"] != "error" || entry["metric"] != "checkSpecularReflection" || entry["run_id"] != "abc" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
	if !strings.Contains(entry["error"].(string), "decode") {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
}
