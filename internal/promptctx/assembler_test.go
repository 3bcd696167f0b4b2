package promptctx

import (
	"fmt"
	"strings"
	"testing"

	"rideinsight/internal/analytics"
	"rideinsight/internal/domain"
)

func sampleInput(trips int) Input {
	in := Input{Question: "What are the peak rideshare hours?"}
	for i := 0; i < trips; i++ {
		in.Trips = append(in.Trips, domain.Trip{
			ID:             fmt.Sprintf("trip-%d", i),
			PickupAddress:  strings.Repeat("West Campus ", 20),
			DropoffAddress: strings.Repeat("East 6th Street ", 20),
		})
	}
	in.Users = []domain.User{{ID: "u1"}}
	in.Snapshot = analytics.Build(in.Trips, in.Users, domain.AggregateCounts{Count: int64(trips)})
	return in
}

func TestAssembleSectionsInOrder(t *testing.T) {
	p, err := New(Options{}).Assemble(sampleInput(2))
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if p.Truncated {
		t.Fatal("small prompt should not be truncated")
	}
	order := []string{
		"FETII AI",
		"**Time Analytics:**",
		"**Location Analytics:**",
		"**User Demographics:**",
		"**Ride Patterns:**",
		"**Overall Statistics:**",
		"Recent Trips Sample:",
		"User Demographics Sample:",
		`**USER QUESTION:** "What are the peak rideshare hours?"`,
		"**RESPONSE GUIDELINES:**",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(p.Text, marker)
		if idx < 0 {
			t.Fatalf("prompt missing %q", marker)
		}
		if idx <= last {
			t.Fatalf("%q out of order", marker)
		}
		last = idx
	}
	if p.EstimatedTokens != EstimateTokens(p.Text) {
		t.Fatalf("EstimatedTokens = %d, want %d", p.EstimatedTokens, EstimateTokens(p.Text))
	}
}

func TestAssembleSamplesFirstFive(t *testing.T) {
	p, err := New(Options{}).Assemble(sampleInput(8))
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if !strings.Contains(p.Text, `"trip-4"`) {
		t.Fatal("expected trip-4 in sample")
	}
	if strings.Contains(p.Text, `"trip-5"`) {
		t.Fatal("sample should stop after five trips")
	}
}

func TestAssembleEmptySampleEncodesAsArray(t *testing.T) {
	p, err := New(Options{}).Assemble(Input{Question: "q"})
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if !strings.Contains(p.Text, "Recent Trips Sample: []") {
		t.Fatal("empty trip sample should render as []")
	}
}

func TestAssembleTruncatesOnlySample(t *testing.T) {
	in := sampleInput(5)
	full, err := New(Options{}).Assemble(in)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	ceiling := full.EstimatedTokens - 200

	a := New(Options{MaxTokens: ceiling})
	p, err := a.Assemble(in)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if !p.Truncated {
		t.Fatal("expected truncation")
	}
	if !strings.Contains(p.Text, TruncationMarker) {
		t.Fatal("truncated prompt missing marker")
	}
	if !strings.Contains(p.Text, `**USER QUESTION:** "What are the peak rideshare hours?"`) {
		t.Fatal("question was cropped")
	}
	for _, section := range []string{"**Time Analytics:**", "**Overall Statistics:**", "**RESPONSE GUIDELINES:**"} {
		if !strings.Contains(p.Text, section) {
			t.Fatalf("section %q was cropped", section)
		}
	}
	if p.EstimatedTokens >= full.EstimatedTokens {
		t.Fatalf("truncated prompt %d tokens, full %d", p.EstimatedTokens, full.EstimatedTokens)
	}
	if p.EstimatedTokens > ceiling {
		t.Fatalf("truncated prompt %d tokens exceeds ceiling %d", p.EstimatedTokens, ceiling)
	}

	again, _ := a.Assemble(in)
	if again.Text != p.Text {
		t.Fatal("truncation is not deterministic")
	}
}

func TestAssembleFitsCeilingWhenFixedSectionsDominate(t *testing.T) {
	in := sampleInput(5)
	bare := in
	bare.Trips, bare.Users = nil, nil
	structured, err := New(Options{}).Assemble(bare)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}

	for _, headroom := range []int{100, 20, 11} {
		ceiling := structured.EstimatedTokens + headroom
		p, err := New(Options{MaxTokens: ceiling}).Assemble(in)
		if err != nil {
			t.Fatalf("Assemble returned error: %v", err)
		}
		if !p.Truncated {
			t.Fatalf("headroom %d: expected truncation", headroom)
		}
		if p.EstimatedTokens > ceiling {
			t.Fatalf("headroom %d: prompt %d tokens exceeds ceiling %d", headroom, p.EstimatedTokens, ceiling)
		}
		if !strings.Contains(p.Text, TruncationMarker) {
			t.Fatalf("headroom %d: missing marker", headroom)
		}
	}
}

func TestAssembleOverCeilingOnlyWhenFixedSectionsExceedIt(t *testing.T) {
	in := sampleInput(5)
	p, err := New(Options{MaxTokens: 50}).Assemble(in)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if !p.Truncated {
		t.Fatal("expected truncation")
	}
	if strings.Contains(p.Text, "Recent Trips Sample") {
		t.Fatal("sample should be dropped entirely when nothing fits")
	}
	if !strings.Contains(p.Text, `**USER QUESTION:**`) {
		t.Fatal("question was cropped")
	}
}
