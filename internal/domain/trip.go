package domain

import "time"

// Trip is a single booked ride. Nullable columns are pointers.
type Trip struct {
	ID             string     `json:"id"`
	BookingUserID  string     `json:"booking_user_id"`
	PickupAddress  string     `json:"pickup_address"`
	DropoffAddress string     `json:"dropoff_address"`
	PickupLat      *float64   `json:"pickup_lat"`
	PickupLon      *float64   `json:"pickup_lon"`
	DropoffLat     *float64   `json:"dropoff_lat"`
	DropoffLon     *float64   `json:"dropoff_lon"`
	PickupTime     *time.Time `json:"pickup_time"`
	DropoffTime    *time.Time `json:"dropoff_time"`
	RidersCount    *int       `json:"riders_count"`
}

// Duration returns dropoff minus pickup when both timestamps are known.
func (t Trip) Duration() (time.Duration, bool) {
	if t.PickupTime == nil || t.DropoffTime == nil {
		return 0, false
	}
	return t.DropoffTime.Sub(*t.PickupTime), true
}
