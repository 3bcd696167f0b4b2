package domain

// User is a rider profile. Only an age above zero is meaningful.
type User struct {
	ID  string `json:"id"`
	Age *int   `json:"age"`
}

// ValidAge reports the user's age when it is known and positive.
func (u User) ValidAge() (int, bool) {
	if u.Age == nil || *u.Age <= 0 {
		return 0, false
	}
	return *u.Age, true
}

// AggregateCounts is the store-side rollup over a trailing window of trips.
type AggregateCounts struct {
	Count          int64    `json:"count"`
	AvgRidersCount *float64 `json:"avgRidersCount"`
}
