package sheet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/opsdesk/instascrape/internal/domain"
)

// valuesFetcher is the remote round-trip; narrowed so tests can count calls.
type valuesFetcher interface {
	fetchValues(ctx context.Context) ([][]any, error)
}

// Client reads the scrape results sheet and memoizes the snapshot for a
// fixed TTL. Invalidate forces the next Fetch to hit the remote API.
type Client struct {
	fetcher valuesFetcher
	ttl     time.Duration
	limiter *rate.Limiter

	mu       sync.Mutex
	cached   domain.Snapshot
	cachedAt time.Time
	valid    bool
}

// NewClient authenticates to Google Sheets with a service-account blob
// (read-only scope; this system never writes the sheet).
func NewClient(ctx context.Context, credsJSON []byte, sheetID string, ttl time.Duration) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets auth failed: %w", err)
	}
	return newClient(&apiFetcher{svc: svc, sheetID: sheetID}, ttl), nil
}

func newClient(fetcher valuesFetcher, ttl time.Duration) *Client {
	return &Client{
		fetcher: fetcher,
		ttl:     ttl,
		// Sheets read quota: 60 reqs/min per user (safe buffer)
		limiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
	}
}

// Fetch returns the cached snapshot when it is still fresh. On remote
// failure it returns an empty snapshot together with the error; it never
// panics past this boundary and never caches a failure.
func (c *Client) Fetch(ctx context.Context) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && time.Since(c.cachedAt) < c.ttl {
		return c.cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Snapshot{FetchedAt: time.Now()}, err
	}

	values, err := c.fetcher.fetchValues(ctx)
	if err != nil {
		return domain.Snapshot{FetchedAt: time.Now()}, fmt.Errorf("sheet read failed: %w", err)
	}

	snap := buildSnapshot(values)
	c.cached = snap
	c.cachedAt = time.Now()
	c.valid = true
	return snap, nil
}

func (c *Client) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// buildSnapshot treats the first row as column headers and every later row
// as a record, mirroring get_all_records semantics. Short rows are padded
// with empty strings; extra cells beyond the header are dropped.
func buildSnapshot(values [][]any) domain.Snapshot {
	snap := domain.Snapshot{FetchedAt: time.Now()}
	if len(values) == 0 {
		return snap
	}

	for _, cell := range values[0] {
		snap.Columns = append(snap.Columns, cellString(cell))
	}
	for _, rawRow := range values[1:] {
		row := make(domain.Row, len(snap.Columns))
		for i, col := range snap.Columns {
			if i < len(rawRow) {
				row[col] = cellString(rawRow[i])
			} else {
				row[col] = ""
			}
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}

func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type apiFetcher struct {
	svc     *sheets.Service
	sheetID string
}

func (f *apiFetcher) fetchValues(ctx context.Context) ([][]any, error) {
	resp, err := f.svc.Spreadsheets.Values.Get(f.sheetID, "A1:ZZ").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
