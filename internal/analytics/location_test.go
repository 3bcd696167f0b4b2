package analytics

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rideinsight/internal/domain"
)

func TestLocationRanksAndBreaksTiesByFirstSeen(t *testing.T) {
	trips := []domain.Trip{
		{PickupAddress: "Campus", DropoffAddress: "6th St"},
		{PickupAddress: "Airport", DropoffAddress: "6th St"},
		{PickupAddress: "Campus", DropoffAddress: "Rainey St"},
		{PickupAddress: "Airport", DropoffAddress: ""},
		{PickupAddress: "Domain", DropoffAddress: "Rainey St"},
		{PickupAddress: "Airport"},
	}
	got := Location(trips)

	wantPickups := []LocationCount{{"Airport", 3}, {"Campus", 2}, {"Domain", 1}}
	if diff := cmp.Diff(wantPickups, got.TopPickupLocations); diff != "" {
		t.Fatalf("TopPickupLocations mismatch (-want +got):\n%s", diff)
	}
	wantDropoffs := []LocationCount{{"6th St", 2}, {"Rainey St", 2}}
	if diff := cmp.Diff(wantDropoffs, got.TopDropoffLocations); diff != "" {
		t.Fatalf("TopDropoffLocations mismatch (-want +got):\n%s", diff)
	}
	if got.UniquePickupLocations != 3 || got.UniqueDropoffLocations != 2 {
		t.Fatalf("unique counts = %d/%d, want 3/2", got.UniquePickupLocations, got.UniqueDropoffLocations)
	}
}

func TestLocationNoNormalization(t *testing.T) {
	trips := []domain.Trip{{PickupAddress: "6th St"}, {PickupAddress: "6th st"}, {PickupAddress: " 6th St"}}
	if got := Location(trips).UniquePickupLocations; got != 3 {
		t.Fatalf("UniquePickupLocations = %d, want 3", got)
	}
}

func TestLocationCapsAtTen(t *testing.T) {
	var trips []domain.Trip
	for i := 0; i < 25; i++ {
		trips = append(trips, domain.Trip{PickupAddress: fmt.Sprintf("addr-%02d", i), DropoffAddress: "X"})
	}
	got := Location(trips)
	if len(got.TopPickupLocations) != 10 {
		t.Fatalf("len(TopPickupLocations) = %d, want 10", len(got.TopPickupLocations))
	}
	if got.TopPickupLocations[0].Location != "addr-00" || got.TopPickupLocations[9].Location != "addr-09" {
		t.Fatalf("stable order lost: %v", got.TopPickupLocations)
	}
	if got.UniquePickupLocations != 25 {
		t.Fatalf("UniquePickupLocations = %d, want 25", got.UniquePickupLocations)
	}
	for i := 1; i < len(got.TopPickupLocations); i++ {
		if got.TopPickupLocations[i].Count > got.TopPickupLocations[i-1].Count {
			t.Fatalf("ranking not descending at %d: %v", i, got.TopPickupLocations)
		}
	}
}
