package analytics

import (
	"slices"

	"rideinsight/internal/domain"
)

const topLocationCount = 10

// LocationCount is one entry of a top-locations ranking.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// LocationSummary ranks exact pickup and dropoff address strings.
type LocationSummary struct {
	TopPickupLocations     []LocationCount `json:"topPickupLocations"`
	TopDropoffLocations    []LocationCount `json:"topDropoffLocations"`
	UniquePickupLocations  int             `json:"uniquePickupLocations"`
	UniqueDropoffLocations int             `json:"uniqueDropoffLocations"`
}

// Location counts addresses verbatim. Empty addresses are skipped.
func Location(trips []domain.Trip) LocationSummary {
	pickups := newTally()
	dropoffs := newTally()
	for _, trip := range trips {
		pickups.add(trip.PickupAddress)
		dropoffs.add(trip.DropoffAddress)
	}
	return LocationSummary{
		TopPickupLocations:     pickups.top(topLocationCount),
		TopDropoffLocations:    dropoffs.top(topLocationCount),
		UniquePickupLocations:  len(pickups.counts),
		UniqueDropoffLocations: len(dropoffs.counts),
	}
}

// tally remembers first-seen order so equal counts rank by first appearance.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if key == "" {
		return
	}
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *tally) top(n int) []LocationCount {
	ranked := make([]LocationCount, 0, len(t.order))
	for _, key := range t.order {
		ranked = append(ranked, LocationCount{Location: key, Count: t.counts[key]})
	}
	slices.SortStableFunc(ranked, func(a, b LocationCount) int {
		return b.Count - a.Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
