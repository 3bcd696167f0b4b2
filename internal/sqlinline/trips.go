package sqlinline

// QSelectRecentTrips reads the newest trips, optionally bounded below by $1.
// A NULL $1 disables the window.
const QSelectRecentTrips = `--sql 47a1d878-752c-4390-8262-d8c2077c4997
select
    id,
    booking_user_id,
    pickup_address,
    dropoff_address,
    pickup_lat,
    pickup_lon,
    dropoff_lat,
    dropoff_lon,
    pickup_time,
    dropoff_time,
    riders_count
from trips
where ($1::timestamptz is null or pickup_time >= $1::timestamptz)
order by pickup_time desc nulls last
limit $2::int;
`

const QTripAggregateSince = `--sql fef49bd2-befd-48f6-8b05-7cf72f3278f5
select
    count(id),
    avg(riders_count)::float8
from trips
where pickup_time >= $1::timestamptz;
`
