package sqlinline

const QSelectIntegrationToken = `--sql 56b3922a-4797-4975-98ef-1016cd70f028
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 4b6dc8d8-4f08-4849-ad00-d37d6f0332d2
insert into integration_tokens (provider, token, created_at, updated_at)
values ($1::text, $2::text, now(), now())
on conflict (provider) do update set
    token = excluded.token,
    updated_at = now();
`
