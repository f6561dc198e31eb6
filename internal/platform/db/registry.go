package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/platform/cache"
)

const facilityCacheKeyPrefix = "facility_"

// Querier is the subset of pgxpool.Pool the registry read path needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrNotFound is returned when a registry row does not exist.
var ErrNotFound = errors.New("record not found")

// FacilityRecord is a row from the facility replica table.
type FacilityRecord struct {
	ID              string `json:"id"`
	TenantID        string `json:"tenantId"`
	Name            string `json:"name"`
	Usage           string `json:"usage"`
	StorageCapacity *int64 `json:"storageCapacity,omitempty"`
	LastModified    int64  `json:"lastModifiedTime"`
}

// BoundaryRecord is a row from the boundary replica table.
type BoundaryRecord struct {
	ID           string
	TenantID     string
	Code         string
	BoundaryType string
	LastModified int64
}

// Registry reads domain records from the replica database, with a short
// lived cache in front of facility lookups.
type Registry struct {
	q     Querier
	cache cache.Store
	ttl   time.Duration
	log   zerolog.Logger
}

func NewRegistry(q Querier, store cache.Store, ttl time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		q:     q,
		cache: store,
		ttl:   ttl,
		log:   log.With().Str("component", "registry").Logger(),
	}
}

// Facility returns one facility row, served from cache when fresh.
func (r *Registry) Facility(ctx context.Context, id string) (*FacilityRecord, error) {
	key := facilityCacheKeyPrefix + id
	if data, ok := r.cache.Get(key); ok {
		var rec FacilityRecord
		if err := json.Unmarshal(data, &rec); err == nil {
			return &rec, nil
		}
		r.cache.Delete(key)
	}

	var rec FacilityRecord
	row := r.q.QueryRow(ctx,
		`SELECT id, tenantid, name, usage, storagecapacity, lastmodifiedtime
		 FROM facility WHERE id = $1`, id)
	if err := row.Scan(&rec.ID, &rec.TenantID, &rec.Name, &rec.Usage, &rec.StorageCapacity, &rec.LastModified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query facility %s: %w", id, err)
	}

	if data, err := json.Marshal(&rec); err == nil {
		r.cache.Set(key, data, r.ttl)
	}
	return &rec, nil
}

// BoundaryPage narrows a boundary listing. AfterID is an id cursor; Since
// filters on last modification; Count caps the page size.
type BoundaryPage struct {
	AfterID string
	Since   *time.Time
	Count   int
}

// Boundaries lists boundary rows for the cursor page, ordered by id so the
// afterId cursor is stable across calls.
func (r *Registry) Boundaries(ctx context.Context, page BoundaryPage) ([]BoundaryRecord, error) {
	query, args := buildBoundaryQuery(page, false)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query boundaries: %w", err)
	}
	defer rows.Close()

	var out []BoundaryRecord
	for rows.Next() {
		var rec BoundaryRecord
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.Code, &rec.BoundaryType, &rec.LastModified); err != nil {
			return nil, fmt.Errorf("scan boundary row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boundary rows: %w", err)
	}
	return out, nil
}

// CountBoundaries returns the number of rows matching the page filters,
// ignoring the cursor and limit. Used for the searchset total.
func (r *Registry) CountBoundaries(ctx context.Context, page BoundaryPage) (int, error) {
	page.AfterID = ""
	query, args := buildBoundaryQuery(page, true)
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count boundaries: %w", err)
	}
	return total, nil
}

func buildBoundaryQuery(page BoundaryPage, count bool) (string, []any) {
	var sb strings.Builder
	if count {
		sb.WriteString(`SELECT COUNT(*) FROM boundary WHERE 1=1`)
	} else {
		sb.WriteString(`SELECT id, tenantid, code, boundarytype, lastmodifiedtime FROM boundary WHERE 1=1`)
	}

	var args []any
	if page.AfterID != "" {
		args = append(args, page.AfterID)
		sb.WriteString(" AND id > $" + strconv.Itoa(len(args)))
	}
	if page.Since != nil {
		args = append(args, page.Since.UnixMilli())
		sb.WriteString(" AND lastmodifiedtime >= $" + strconv.Itoa(len(args)))
	}
	if !count {
		sb.WriteString(" ORDER BY id ASC")
		if page.Count > 0 {
			args = append(args, page.Count)
			sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
		}
	}
	return sb.String(), args
}
