package sheet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubFetcher struct {
	calls  int
	values [][]any
	err    error
}

func (s *stubFetcher) fetchValues(ctx context.Context) ([][]any, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.values, nil
}

func testClient(f *stubFetcher, ttl time.Duration) *Client {
	c := newClient(f, ttl)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

var sheetValues = [][]any{
	{"username", "caption", "likes"},
	{"natgeo", "a lion", float64(120)},
	{"natgeo", "a river"},
}

func TestFetchDecodesRecords(t *testing.T) {
	client := testClient(&stubFetcher{values: sheetValues}, time.Minute)

	snap, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"username", "caption", "likes"}, snap.Columns)
	require.Equal(t, 2, snap.Count())
	require.Equal(t, "120", snap.Rows[0]["likes"])
	// short row padded with empty cell
	require.Equal(t, "", snap.Rows[1]["likes"])
}

func TestFetchMemoizesWithinTTL(t *testing.T) {
	fetcher := &stubFetcher{values: sheetValues}
	client := testClient(fetcher, time.Minute)

	_, err := client.Fetch(context.Background())
	require.NoError(t, err)
	_, err = client.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, fetcher.calls)
}

func TestInvalidateForcesRoundTrip(t *testing.T) {
	fetcher := &stubFetcher{values: sheetValues}
	client := testClient(fetcher, time.Minute)

	_, err := client.Fetch(context.Background())
	require.NoError(t, err)
	client.Invalidate()
	_, err = client.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, fetcher.calls)
}

func TestExpiredTTLForcesRoundTrip(t *testing.T) {
	fetcher := &stubFetcher{values: sheetValues}
	client := testClient(fetcher, 10*time.Millisecond)

	_, err := client.Fetch(context.Background())
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = client.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, fetcher.calls)
}

func TestFetchFailureReturnsEmptySnapshot(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("quota exceeded")}
	client := testClient(fetcher, time.Minute)

	snap, err := client.Fetch(context.Background())
	require.Error(t, err)
	require.Equal(t, 0, snap.Count())

	// failures are not cached; the next call retries the remote
	fetcher.err = nil
	fetcher.values = sheetValues
	snap, err = client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, snap.Count())
	require.Equal(t, 2, fetcher.calls)
}

func TestEmptySheet(t *testing.T) {
	client := testClient(&stubFetcher{values: nil}, time.Minute)

	snap, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Empty(t, snap.Columns)
	require.Equal(t, 0, snap.Count())
}
