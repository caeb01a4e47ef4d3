package metrics

const (
	defaultMetricsEndpoint = "/metrics"
)

// Metric types
const (
	typeGauge     = "gauge"
	typeCounter   = "counter"
	typeHistogram = "histogram"
)

// Metric names and labels
const (
	prefix   = "bridgehub_sdk_"
	labelEnv = "env"

	prefixDeposit      = prefix + "deposit_"
	metricDepositCount = prefixDeposit + "count"
	labelPath          = "path"

	prefixWithdrawal                = prefix + "withdrawal_"
	metricWithdrawalFinalizedCount  = prefixWithdrawal + "finalized_count"
	metricWithdrawalFailedCount     = prefixWithdrawal + "failed_count"
	metricWithdrawalPendingCount    = prefixWithdrawal + "pending_count"
	metricWithdrawalFinalizeLatency = prefixWithdrawal + "finalize_latency_sec"
)
