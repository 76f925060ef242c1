package aggregate

import "github.com/spec-kit/incident-center/internal/domain"

// HealthLevel buckets a health score.
type HealthLevel string

const (
	HealthCritical HealthLevel = "critical"
	HealthDegraded HealthLevel = "degraded"
	HealthWarning  HealthLevel = "warning"
	HealthHealthy  HealthLevel = "healthy"
)

// Health is a coarse 0-100 score for a record's subject system.
type Health struct {
	Score int
	Level HealthLevel
}

// HealthScore grades a record from its error rate (percent) and response time. Missing
// measurements count as zero.
func HealthScore(rec domain.Record) Health {
	errorRate := 0.0
	if rec.ErrorRate != nil {
		errorRate = *rec.ErrorRate
	}
	seconds := 0.0
	if rec.ResponseTimeMs != nil {
		seconds = float64(*rec.ResponseTimeMs) / 1000
	}
	switch {
	case errorRate > 10 || seconds > 30:
		return Health{Score: 25, Level: HealthCritical}
	case errorRate > 5 || seconds > 15:
		return Health{Score: 50, Level: HealthDegraded}
	case errorRate > 2 || seconds > 5:
		return Health{Score: 75, Level: HealthWarning}
	default:
		return Health{Score: 95, Level: HealthHealthy}
	}
}
