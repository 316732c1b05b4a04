package scan

import (
	"PayGuard-Backend/domain"
	"encoding/json"
	"time"
)

// Threshold above which a scan counts as high risk in the aggregate stats.
// Numerically equal to the alert threshold today, but tracked separately.
const highRiskStatsThreshold = 70

// ScanOutcome is the slice of a finished analysis that feeds the stats
// reducer.
type ScanOutcome struct {
	ScanID           string
	Score            int
	FraudProbability float64
}

// ApplyScanOutcome is the pure stats reducer: (previous, outcome) -> next.
func ApplyScanOutcome(prev domain.ScanStats, outcome ScanOutcome) domain.ScanStats {
	next := prev
	next.TotalScans++
	if outcome.Score >= highRiskStatsThreshold {
		next.HighRiskScans++
	}
	next.LastScanID = outcome.ScanID
	next.LastScanScore = outcome.Score
	next.LastFraudProbability = outcome.FraudProbability
	next.UpdatedAt = time.Now()
	return next
}

// ParseScanStats decodes the stats blob stored on the user profile. An empty
// or malformed blob yields zeroed stats.
func ParseScanStats(blob string) domain.ScanStats {
	var stats domain.ScanStats
	if blob == "" {
		return stats
	}
	if err := json.Unmarshal([]byte(blob), &stats); err != nil {
		return domain.ScanStats{}
	}
	return stats
}
