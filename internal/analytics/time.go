package analytics

import (
	"fmt"
	"slices"

	"rideinsight/internal/domain"
)

const peakHourCount = 3

// HourCount is one entry of the peak-hours ranking.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Label renders the hour as "17:00".
func (h HourCount) Label() string {
	return fmt.Sprintf("%d:00", h.Hour)
}

// TimeSummary buckets pickups by hour of day and day of week. Weekday 0 is Sunday.
type TimeSummary struct {
	PeakHours           []HourCount `json:"peakHours"`
	HourlyDistribution  [24]int     `json:"hourlyDistribution"`
	WeekdayDistribution [7]int      `json:"weekdayDistribution"`
	TripsWithPickupTime int         `json:"tripsWithPickupTime"`
	TotalTripsAnalyzed  int         `json:"totalTripsAnalyzed"`
}

// Time summarizes pickup times. Trips without a pickup timestamp are left out
// of the histograms but still count towards TotalTripsAnalyzed.
func Time(trips []domain.Trip) TimeSummary {
	s := TimeSummary{TotalTripsAnalyzed: len(trips)}
	for _, trip := range trips {
		if trip.PickupTime == nil {
			continue
		}
		s.HourlyDistribution[trip.PickupTime.Hour()]++
		s.WeekdayDistribution[int(trip.PickupTime.Weekday())]++
		s.TripsWithPickupTime++
	}
	s.PeakHours = topHours(s.HourlyDistribution, peakHourCount)
	return s
}

func topHours(hist [24]int, n int) []HourCount {
	hours := make([]HourCount, 0, len(hist))
	for hour, count := range hist {
		if count > 0 {
			hours = append(hours, HourCount{Hour: hour, Count: count})
		}
	}
	slices.SortFunc(hours, func(a, b HourCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return a.Hour - b.Hour
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}
