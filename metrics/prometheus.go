package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serverTimeout = 5 * time.Second

var (
	mutex       sync.RWMutex
	registerer  prometheus.Registerer
	initialized bool
	constLabels prometheus.Labels

	gauges     map[string]*prometheus.GaugeVec
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
)

func getLogger(metricName, metricType string) *log.Logger {
	return log.WithFields("metricName", metricName, "metricType", metricType)
}

// StartMetricsHttpServer initializes the metrics registry and serves it until ctx is done
func StartMetricsHttpServer(ctx context.Context, c Config) {
	if !c.Enabled {
		return
	}
	initMetrics(prometheus.DefaultRegisterer, c.Env)

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultMetricsEndpoint
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.Handler())
	srv := &http.Server{
		Addr:        ":" + c.Port,
		Handler:     mux,
		ReadTimeout: serverTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("metrics server listening on %s%s", srv.Addr, endpoint)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("serve metrics http server error: %v", err)
	}
}

// register adds the collector built by newVec under name, once. It's a no-op until initMetrics runs.
func register[V prometheus.Collector](store map[string]V, name, metricType string, newVec func() V) {
	if !initialized {
		return
	}
	logger := getLogger(name, metricType)
	mutex.Lock()
	defer mutex.Unlock()

	if _, ok := store[name]; ok {
		return
	}
	collector := newVec()
	if err := registerer.Register(collector); err != nil {
		logger.Errorf("metrics register error: %v", err)
		return
	}
	store[name] = collector
	logger.Debugf("metrics register successfully")
}

func lookup[V prometheus.Collector](store map[string]V, name, metricType string) (V, bool) {
	var zero V
	if !initialized {
		return zero, false
	}
	mutex.RLock()
	c, ok := store[name]
	mutex.RUnlock()
	if !ok {
		getLogger(name, metricType).Errorf("collector not found")
		return zero, false
	}
	return c, true
}

func registerGauge(opt prometheus.GaugeOpts, labelNames ...string) {
	register(gauges, opt.Name, typeGauge, func() *prometheus.GaugeVec {
		opt.ConstLabels = constLabels
		return prometheus.NewGaugeVec(opt, labelNames)
	})
}

func gaugeSet(name string, value float64, labelValues map[string]string) {
	if c, ok := lookup(gauges, name, typeGauge); ok {
		c.With(labelValues).Set(value)
	}
}

func registerCounter(opt prometheus.CounterOpts, labelNames ...string) {
	register(counters, opt.Name, typeCounter, func() *prometheus.CounterVec {
		opt.ConstLabels = constLabels
		return prometheus.NewCounterVec(opt, labelNames)
	})
}

func counterInc(name string, labelValues map[string]string) {
	if c, ok := lookup(counters, name, typeCounter); ok {
		c.With(labelValues).Inc()
	}
}

func registerHistogram(opt prometheus.HistogramOpts, labelNames ...string) {
	register(histograms, opt.Name, typeHistogram, func() *prometheus.HistogramVec {
		opt.ConstLabels = constLabels
		return prometheus.NewHistogramVec(opt, labelNames)
	})
}

func histogramObserve(name string, value float64, labelValues map[string]string) {
	if c, ok := lookup(histograms, name, typeHistogram); ok {
		c.With(labelValues).Observe(value)
	}
}
