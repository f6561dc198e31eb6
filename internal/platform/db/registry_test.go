package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/platform/cache"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeQuerier struct {
	queryRowCalls int
	row           fakeRow
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queryRowCalls++
	return f.row
}

func TestFacility_CacheReadThrough(t *testing.T) {
	q := &fakeQuerier{
		row: fakeRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "f-1"
			*dest[1].(*string) = "mz"
			*dest[2].(*string) = "Central Warehouse"
			*dest[3].(*string) = "STORAGE"
			*dest[4].(**int64) = nil
			*dest[5].(*int64) = 1700000000000
			return nil
		}},
	}
	reg := NewRegistry(q, cache.NewMemory(), time.Minute, zerolog.Nop())

	rec, err := reg.Facility(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != "Central Warehouse" || rec.TenantID != "mz" {
		t.Errorf("unexpected record: %+v", rec)
	}

	// second lookup must be served from cache
	if _, err := reg.Facility(context.Background(), "f-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.queryRowCalls != 1 {
		t.Errorf("expected 1 database call, got %d", q.queryRowCalls)
	}
}

func TestFacility_NotFound(t *testing.T) {
	q := &fakeQuerier{
		row: fakeRow{scan: func(dest ...any) error { return pgx.ErrNoRows }},
	}
	reg := NewRegistry(q, cache.NewMemory(), time.Minute, zerolog.Nop())

	if _, err := reg.Facility(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildBoundaryQuery(t *testing.T) {
	since := time.UnixMilli(1700000000000).UTC()

	query, args := buildBoundaryQuery(BoundaryPage{AfterID: "b-10", Since: &since, Count: 50}, false)
	want := `SELECT id, tenantid, code, boundarytype, lastmodifiedtime FROM boundary WHERE 1=1 AND id > $1 AND lastmodifiedtime >= $2 ORDER BY id ASC LIMIT $3`
	if query != want {
		t.Errorf("unexpected query:\n got %s\nwant %s", query, want)
	}
	if len(args) != 3 || args[0] != "b-10" || args[1] != int64(1700000000000) || args[2] != 50 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildBoundaryQuery_NoFilters(t *testing.T) {
	query, args := buildBoundaryQuery(BoundaryPage{}, false)
	if query != `SELECT id, tenantid, code, boundarytype, lastmodifiedtime FROM boundary WHERE 1=1 ORDER BY id ASC` {
		t.Errorf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildBoundaryQuery_Count(t *testing.T) {
	// count queries drop ordering and limit
	query, args := buildBoundaryQuery(BoundaryPage{Count: 10}, true)
	if query != `SELECT COUNT(*) FROM boundary WHERE 1=1` {
		t.Errorf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Errorf("unexpected args: %v", args)
	}
}
