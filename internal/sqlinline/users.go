package sqlinline

const QSelectRecentUsers = `--sql fd4ec109-4b5b-416c-9163-c9c64873192b
select id, age
from users
order by id desc
limit $1::int;
`
