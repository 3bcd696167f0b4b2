package analytics

import (
	"time"

	"rideinsight/internal/domain"
)

// base is a Sunday.
var base = time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) *time.Time {
	t := base.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return &t
}

func intPtr(v int) *int { return &v }

func tripAtHour(id string, hour int) domain.Trip {
	return domain.Trip{ID: id, PickupTime: at(0, hour, 0)}
}
