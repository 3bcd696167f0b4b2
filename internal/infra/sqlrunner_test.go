package infra

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type recordingExecutor struct {
	lastQuery string
}

func (r *recordingExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	r.lastQuery = query
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (r *recordingExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	r.lastQuery = query
	return errorRow{err: pgx.ErrNoRows}
}

func (r *recordingExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	r.lastQuery = query
	return nil, errors.New("not supported")
}

func TestExtractMarker(t *testing.T) {
	marker, body, err := extractMarker("\n--sql 0f0e5d0a-1c2b-4a3d-9e8f-7a6b5c4d3e2f\nselect 1;\n")
	if err != nil {
		t.Fatalf("extractMarker returned error: %v", err)
	}
	if marker != "0f0e5d0a-1c2b-4a3d-9e8f-7a6b5c4d3e2f" {
		t.Fatalf("marker = %q", marker)
	}
	if strings.TrimSpace(body) != "select 1;" {
		t.Fatalf("body = %q", body)
	}
}

func TestExtractMarkerRejectsBareSQL(t *testing.T) {
	if _, _, err := extractMarker("select 1;"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("err = %v, want ErrMissingMarker", err)
	}
}

func TestSQLRunnerStripsMarker(t *testing.T) {
	exec := &recordingExecutor{}
	runner := NewSQLRunner(exec, zerolog.Nop())

	if _, err := runner.Exec(context.Background(), "--sql 0f0e5d0a-1c2b-4a3d-9e8f-7a6b5c4d3e2f\nupdate t set x = 1;"); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if strings.Contains(exec.lastQuery, "--sql") {
		t.Fatalf("marker leaked into executed query: %q", exec.lastQuery)
	}

	err := runner.QueryRow(context.Background(), "--sql 0f0e5d0a-1c2b-4a3d-9e8f-7a6b5c4d3e2f\nselect 1;").Scan()
	if !IsNoRows(err) {
		t.Fatalf("Scan err = %v, want no rows", err)
	}
}

func TestSQLRunnerRefusesUnmarkedQuery(t *testing.T) {
	exec := &recordingExecutor{}
	runner := NewSQLRunner(exec, zerolog.Nop())

	if _, err := runner.Query(context.Background(), "select 1;"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("Query err = %v, want ErrMissingMarker", err)
	}
	if exec.lastQuery != "" {
		t.Fatalf("unmarked query reached the database: %q", exec.lastQuery)
	}
}
