package analytics

import (
	"math"

	"rideinsight/internal/domain"
)

// Age bucket labels. Buckets are half-open on the upper bound; the first
// bucket also takes every valid age under 18 so the buckets partition all
// valid ages.
const (
	Age18to24 = "18-24"
	Age25to34 = "25-34"
	Age35to44 = "35-44"
	Age45to54 = "45-54"
	Age55Plus = "55+"
)

// UserSummary describes the ages of the supplied users.
type UserSummary struct {
	TotalUsers        int            `json:"totalUsers"`
	AverageAge        *int           `json:"averageAge"`
	AgeDistribution   map[string]int `json:"ageDistribution"`
	UsersWithValidAge int            `json:"usersWithValidAge"`
}

// Demographics computes the age histogram and mean over valid ages only.
// AverageAge is nil when no user has a valid age.
func Demographics(users []domain.User) UserSummary {
	s := UserSummary{
		TotalUsers: len(users),
		AgeDistribution: map[string]int{
			Age18to24: 0,
			Age25to34: 0,
			Age35to44: 0,
			Age45to54: 0,
			Age55Plus: 0,
		},
	}
	sum := 0
	for _, user := range users {
		age, ok := user.ValidAge()
		if !ok {
			continue
		}
		sum += age
		s.UsersWithValidAge++
		s.AgeDistribution[AgeBucket(age)]++
	}
	if s.UsersWithValidAge > 0 {
		avg := int(math.Round(float64(sum) / float64(s.UsersWithValidAge)))
		s.AverageAge = &avg
	}
	return s
}

// AgeBucket maps a positive age to its histogram label.
func AgeBucket(age int) string {
	switch {
	case age < 25:
		return Age18to24
	case age < 35:
		return Age25to34
	case age < 45:
		return Age35to44
	case age < 55:
		return Age45to54
	default:
		return Age55Plus
	}
}
