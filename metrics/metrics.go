package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func initMetrics(reg prometheus.Registerer, env string) {
	mutex.Lock()
	if !initialized {
		registerer = reg
		gauges = make(map[string]*prometheus.GaugeVec)
		counters = make(map[string]*prometheus.CounterVec)
		histograms = make(map[string]*prometheus.HistogramVec)
		if env != "" {
			constLabels = prometheus.Labels{labelEnv: env}
		}
		initialized = true
	}
	mutex.Unlock()

	registerCounter(prometheus.CounterOpts{Name: metricDepositCount, Help: "Deposits sent, by deposit path"}, labelPath)
	registerCounter(prometheus.CounterOpts{Name: metricWithdrawalFinalizedCount, Help: "Withdrawals finalized on L1"})
	registerCounter(prometheus.CounterOpts{Name: metricWithdrawalFailedCount, Help: "Withdrawals given up after the maximum attempts"})
	registerGauge(prometheus.GaugeOpts{Name: metricWithdrawalPendingCount, Help: "Tracked withdrawals waiting for finalization"})
	registerHistogram(prometheus.HistogramOpts{Name: metricWithdrawalFinalizeLatency, Help: "Time from tracking to finalization"})
}

// RecordDeposit increments the deposit count of the path
func RecordDeposit(path string) {
	counterInc(metricDepositCount, map[string]string{labelPath: path})
}

// RecordWithdrawalFinalized increments the finalized withdrawal count and records how long the withdrawal was tracked
func RecordWithdrawalFinalized(trackedFor time.Duration) {
	counterInc(metricWithdrawalFinalizedCount, nil)
	histogramObserve(metricWithdrawalFinalizeLatency, trackedFor.Seconds(), nil)
}

// RecordWithdrawalFailed increments the failed withdrawal count
func RecordWithdrawalFailed() {
	counterInc(metricWithdrawalFailedCount, nil)
}

// RecordPendingWithdrawals sets the number of withdrawals waiting for finalization
func RecordPendingWithdrawals(count int) {
	gaugeSet(metricWithdrawalPendingCount, float64(count), nil)
}
