package analytics

import (
	"math"
	"time"

	"rideinsight/internal/domain"
)

// Durations at or beyond this bound are treated as data errors.
const maxPlausibleTrip = 300 * time.Minute

// RideSummary covers group size and trip length.
type RideSummary struct {
	AverageRidersPerTrip   float64     `json:"averageRidersPerTrip"`
	AverageTripDuration    *int        `json:"averageTripDuration"`
	RiderCountDistribution map[int]int `json:"riderCountDistribution"`
	TripsWithDuration      int         `json:"tripsWithDuration"`
	TotalTripsAnalyzed     int         `json:"totalTripsAnalyzed"`
}

// Rides averages riders over every trip (trips without a positive count add
// zero and stay out of the distribution; negative counts are data errors) and
// averages duration over trips whose length lies strictly between 0 and 300
// minutes. AverageTripDuration is whole minutes, nil when no trip qualifies.
func Rides(trips []domain.Trip) RideSummary {
	s := RideSummary{
		RiderCountDistribution: make(map[int]int),
		TotalTripsAnalyzed:     len(trips),
	}
	riders := 0
	var total time.Duration
	for _, trip := range trips {
		if trip.RidersCount != nil && *trip.RidersCount > 0 {
			riders += *trip.RidersCount
			s.RiderCountDistribution[*trip.RidersCount]++
		}
		if d, ok := trip.Duration(); ok && d > 0 && d < maxPlausibleTrip {
			total += d
			s.TripsWithDuration++
		}
	}
	if len(trips) > 0 {
		s.AverageRidersPerTrip = math.Round(float64(riders)/float64(len(trips))*10) / 10
	}
	if s.TripsWithDuration > 0 {
		avg := int(math.Round(total.Minutes() / float64(s.TripsWithDuration)))
		s.AverageTripDuration = &avg
	}
	return s
}
