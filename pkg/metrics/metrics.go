// Package metrics records process and store metrics. Values are exported
// to prometheus and, once InitMetrics has run, kept as a local time
// series in tstorage. Every function is safe to call before InitMetrics.
package metrics

import (
	"net/http"
	"os"
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "storefront"

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	counterVec = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Store and process events by name",
	}, []string{"name"})

	gaugeVec = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gauge",
		Help:      "Sampled values by name",
	}, []string{"name"})
)

var (
	mu       sync.Mutex
	storage  tstorage.Storage
	counters = map[string]int64{}
)

// Point is one stored sample.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// InitMetrics opens the time series store under workdir/data/metrics.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	dir := path.Join(workdir, "data", "metrics")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create metrics dir")
	}
	st, err := tstorage.NewStorage(
		tstorage.WithDataPath(dir),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(time.Hour*6),
		tstorage.WithRetention(time.Hour*24*7),
	)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	storage = st
	return nil
}

func insert(name string, value float64) {
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
	}})
	if err != nil {
		zap.L().Debug("metrics insert failed", zap.String("name", name), zap.Error(err))
	}
}

// SetGauge records the current value of name.
func SetGauge(name string, value int64) {
	gaugeVec.WithLabelValues(name).Set(float64(value))
	mu.Lock()
	defer mu.Unlock()
	insert(name, float64(value))
}

// IncCounter adds one to the counter name.
func IncCounter(name string) {
	AddCounter(name, 1)
}

// AddCounter adds delta to the counter name. The stored series holds the
// running total.
func AddCounter(name string, delta int64) {
	if delta <= 0 {
		return
	}
	counterVec.WithLabelValues(name).Add(float64(delta))
	mu.Lock()
	defer mu.Unlock()
	counters[name] += delta
	insert(name, float64(counters[name]))
}

// Counter returns the running total of name since process start.
func Counter(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// Query returns the samples of name between start and end (unix seconds).
func Query(name string, start, end int64) ([]Point, error) {
	mu.Lock()
	st := storage
	mu.Unlock()
	if st == nil {
		return []Point{}, nil
	}
	points, err := st.Select(name, nil, start, end)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", name)
	}
	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, Point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return out, nil
}

// Handler serves the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Close flushes the time series store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
