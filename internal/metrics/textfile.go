package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/roach88/bmicount/internal/batch"
	"github.com/roach88/bmicount/internal/bmi"
)

// Metric names written by WriteTextfile.
const (
	MetricRecords = "bmicount_records"
	MetricInRange = "bmicount_in_range"
	MetricBounds  = "bmicount_bounds"
	MetricBMI     = "bmicount_bmi"
)

// HistogramBuckets are the upper bounds of the BMI histogram: the conventional
// underweight, normal, overweight and obesity class limits.
var HistogramBuckets = []float64{18.5, 25, 30, 35, 40}

// Snapshot is the data exported for one batch.
type Snapshot struct {
	Total   int
	InRange int
	Bounds  bmi.Bounds
	Values  []float64
}

// SnapshotOf builds a Snapshot from an aggregation result.
func SnapshotOf(res *batch.Result) Snapshot {
	return Snapshot{
		Total:   res.Total,
		InRange: res.Count,
		Bounds:  res.Bounds,
		Values:  res.Values,
	}
}

// Families converts a snapshot to metric families, in a fixed order.
func Families(s Snapshot) []*dto.MetricFamily {
	return []*dto.MetricFamily{
		gaugeFamily(MetricRecords, "Number of records in the last batch.", float64(s.Total)),
		gaugeFamily(MetricInRange, "Number of BMI values inside the configured band in the last batch.", float64(s.InRange)),
		{
			Name: proto.String(MetricBounds),
			Help: proto.String("Inclusive band used for counting."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{
				boundMetric("lower", s.Bounds.Lower),
				boundMetric("upper", s.Bounds.Upper),
			},
		},
		histogramFamily(s.Values),
	}
}

// WriteTextfile writes the snapshot in the Prometheus text exposition format.
func WriteTextfile(w io.Writer, s Snapshot) error {
	for _, mf := range Families(s) {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the snapshot to path atomically: a temp file in the same
// directory is written, synced and renamed over path, so a collector never
// reads a partial file.
func WriteFile(path string, s Snapshot) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*.prom")
	if err != nil {
		return fmt.Errorf("metrics: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := WriteTextfile(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("metrics: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("metrics: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("metrics: close: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("metrics: chmod: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("metrics: rename: %w", err)
	}
	return nil
}

func gaugeFamily(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}

func boundMetric(edge string, v float64) *dto.Metric {
	return &dto.Metric{
		Label: []*dto.LabelPair{{Name: proto.String("edge"), Value: proto.String(edge)}},
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

// histogramFamily buckets values cumulatively. The +Inf bucket is implied by
// the sample count.
func histogramFamily(values []float64) *dto.MetricFamily {
	counts := make([]uint64, len(HistogramBuckets))
	var sum float64
	for _, v := range values {
		sum += v
		for i, ub := range HistogramBuckets {
			if v <= ub {
				counts[i]++
			}
		}
	}

	buckets := make([]*dto.Bucket, len(HistogramBuckets))
	for i, ub := range HistogramBuckets {
		buckets[i] = &dto.Bucket{
			UpperBound:      proto.Float64(ub),
			CumulativeCount: proto.Uint64(counts[i]),
		}
	}

	return &dto.MetricFamily{
		Name: proto.String(MetricBMI),
		Help: proto.String("Distribution of BMI values in the last batch."),
		Type: dto.MetricType_HISTOGRAM.Enum(),
		Metric: []*dto.Metric{{
			Histogram: &dto.Histogram{
				SampleCount: proto.Uint64(uint64(len(values))),
				SampleSum:   proto.Float64(sum),
				Bucket:      buckets,
			},
		}},
	}
}
