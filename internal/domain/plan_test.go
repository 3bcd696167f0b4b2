package domain

import "testing"

func TestFetchPlanLimitClamps(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{limit: -4, want: 1},
		{limit: 0, want: 1},
		{limit: 150, want: 150},
		{limit: 300, want: 300},
		{limit: 5000, want: MaxRecordLimit},
	}
	for _, tt := range tests {
		if got := (FetchPlan{RecordLimit: tt.limit}).Limit(); got != tt.want {
			t.Fatalf("Limit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestUserValidAge(t *testing.T) {
	zero, adult := 0, 31
	cases := []struct {
		user User
		ok   bool
	}{
		{User{ID: "a"}, false},
		{User{ID: "b", Age: &zero}, false},
		{User{ID: "c", Age: &adult}, true},
	}
	for _, c := range cases {
		if _, ok := c.user.ValidAge(); ok != c.ok {
			t.Fatalf("ValidAge(%s) ok = %v, want %v", c.user.ID, ok, c.ok)
		}
	}
}
