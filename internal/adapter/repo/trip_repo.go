package repo

import (
	"context"
	"fmt"
	"time"

	"rideinsight/internal/domain"
	"rideinsight/internal/infra"
	"rideinsight/internal/sqlinline"
)

// TripRepositoryPG implements domain.RecordStore using PostgreSQL.
type TripRepositoryPG struct {
	sql infra.SQLExecutor
	loc *time.Location
	now func() time.Time
}

// NewTripRepository constructs the repository. Timestamps are converted to
// loc before they leave the store so hour and weekday buckets follow the
// service area's wall clock.
func NewTripRepository(sql infra.SQLExecutor, loc *time.Location) *TripRepositoryPG {
	if loc == nil {
		loc = time.UTC
	}
	return &TripRepositoryPG{sql: sql, loc: loc, now: time.Now}
}

// FetchTrips returns up to plan.Limit() trips, newest pickup first.
func (r *TripRepositoryPG) FetchTrips(ctx context.Context, plan domain.FetchPlan) ([]domain.Trip, error) {
	var since *time.Time
	if plan.HasWindow() {
		s := r.now().AddDate(0, 0, -plan.TimeWindowDays)
		since = &s
	}

	rows, err := r.sql.Query(ctx, sqlinline.QSelectRecentTrips, since, plan.Limit())
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0, plan.Limit())
	for rows.Next() {
		var (
			t                        domain.Trip
			booking, pickup, dropoff *string
		)
		if err := rows.Scan(
			&t.ID,
			&booking,
			&pickup,
			&dropoff,
			&t.PickupLat,
			&t.PickupLon,
			&t.DropoffLat,
			&t.DropoffLon,
			&t.PickupTime,
			&t.DropoffTime,
			&t.RidersCount,
		); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		t.BookingUserID = deref(booking)
		t.PickupAddress = deref(pickup)
		t.DropoffAddress = deref(dropoff)
		t.PickupTime = r.localize(t.PickupTime)
		t.DropoffTime = r.localize(t.DropoffTime)
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return trips, nil
}

// FetchUsers returns up to limit users ordered by id descending.
func (r *TripRepositoryPG) FetchUsers(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.sql.Query(ctx, sqlinline.QSelectRecentUsers, limit)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Age); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// FetchAggregateCounts rolls up trip count and mean riders over the trailing windowDays.
func (r *TripRepositoryPG) FetchAggregateCounts(ctx context.Context, windowDays int) (domain.AggregateCounts, error) {
	since := r.now().AddDate(0, 0, -windowDays)
	row := r.sql.QueryRow(ctx, sqlinline.QTripAggregateSince, since)

	var counts domain.AggregateCounts
	if err := row.Scan(&counts.Count, &counts.AvgRidersCount); err != nil {
		return domain.AggregateCounts{}, fmt.Errorf("aggregate trips: %w", err)
	}
	return counts, nil
}

func (r *TripRepositoryPG) localize(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	v := ts.In(r.loc)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ domain.RecordStore = (*TripRepositoryPG)(nil)
