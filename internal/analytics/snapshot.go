// Package analytics derives request-scoped summaries from raw trip and user
// records. Every function is pure: the same input in the same order yields
// the same output.
package analytics

import "rideinsight/internal/domain"

// Snapshot bundles the four summaries with the store's rollup counters.
type Snapshot struct {
	TimeAnalytics     TimeSummary            `json:"timeAnalytics"`
	LocationAnalytics LocationSummary        `json:"locationAnalytics"`
	UserAnalytics     UserSummary            `json:"userAnalytics"`
	RideAnalytics     RideSummary            `json:"rideAnalytics"`
	OverallStats      domain.AggregateCounts `json:"overallStats"`
}

// Build computes a snapshot from one batch of records.
func Build(trips []domain.Trip, users []domain.User, overall domain.AggregateCounts) Snapshot {
	return Snapshot{
		TimeAnalytics:     Time(trips),
		LocationAnalytics: Location(trips),
		UserAnalytics:     Demographics(users),
		RideAnalytics:     Rides(trips),
		OverallStats:      overall,
	}
}

// PeakHourLabels renders the ranked peak hours as "H:00" strings.
func (s Snapshot) PeakHourLabels() []string {
	labels := make([]string, 0, len(s.TimeAnalytics.PeakHours))
	for _, h := range s.TimeAnalytics.PeakHours {
		labels = append(labels, h.Label())
	}
	return labels
}

// TopPickupLocation returns the most frequent pickup address, or "".
func (s Snapshot) TopPickupLocation() string {
	if len(s.LocationAnalytics.TopPickupLocations) == 0 {
		return ""
	}
	return s.LocationAnalytics.TopPickupLocations[0].Location
}
