package analysis

import "time"

// Health classification thresholds. Evaluated in strict precedence order by
// ClassifyHealth; reordering them changes boundary behavior.
const (
	toxicLowRateThreshold      = 0.10
	toxicLowRateMinFailures    = 4
	toxicConsecutiveFailures   = 6
	toxicZeroRateMinAttempts   = 5
	degradingRateThreshold     = 0.25
	degradingRateMinFailures   = 2
	degradingStaleRate         = 0.20
	degradingConsecutiveFloors = 3
)

// ClassifyHealth maps a number's aggregate metrics to a health label. It is a
// pure function; the first matching rule wins.
func ClassifyHealth(successRate float64, consecutiveFailures, totalAttempts int, hasRecentSuccess bool) HealthLabel {
	switch {
	case successRate < toxicLowRateThreshold && consecutiveFailures >= toxicLowRateMinFailures:
		return Toxic
	case consecutiveFailures >= toxicConsecutiveFailures:
		return Toxic
	case totalAttempts >= toxicZeroRateMinAttempts && successRate == 0:
		return Toxic
	case successRate < degradingRateThreshold && consecutiveFailures >= degradingRateMinFailures:
		return Degrading
	case successRate < degradingStaleRate && !hasRecentSuccess:
		return Degrading
	case consecutiveFailures >= degradingConsecutiveFloors:
		return Degrading
	default:
		return Healthy
	}
}

// hasRecentSuccess reports whether lastSuccess falls inside the trailing
// window ending at the dataset's maximum observed timestamp. Using the
// dataset-relative "now" keeps classification reproducible on historical
// exports.
func hasRecentSuccess(lastSuccess, datasetMax time.Time, windowDays int) bool {
	if lastSuccess.IsZero() {
		return false
	}
	cutoff := datasetMax.AddDate(0, 0, -windowDays)
	return !lastSuccess.Before(cutoff)
}
