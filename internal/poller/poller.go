package poller

import (
	"context"
	"time"

	"github.com/opsdesk/instascrape/internal/domain"
)

// Outcome is the terminal state of a wait. A timed-out wait is not an
// error: the workflow may still be running. Repeated read failures are a
// distinct signal so a store outage is not mistaken for "still processing".
type Outcome int

const (
	Completed Outcome = iota
	TimedOut
	StoreUnavailable
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case TimedOut:
		return "timed out"
	case StoreUnavailable:
		return "store unavailable"
	case Canceled:
		return "canceled"
	}
	return "unknown"
}

const defaultMaxReadFailures = 3

// Poller waits for the external workflow to append rows to the sheet. Each
// tick it drops the cached snapshot and re-reads, comparing the row count
// against a baseline taken before dispatch.
type Poller struct {
	Store    domain.Store
	Interval time.Duration

	// Consecutive failed reads before giving up early. Zero means the
	// default of 3.
	MaxReadFailures int

	// Progress, if set, is called once per tick with elapsed and total
	// wait time for user-facing feedback.
	Progress func(elapsed, total time.Duration)
}

// AwaitGrowth blocks until the sheet has more than baseline rows, the
// timeout elapses, the store fails too many reads in a row, or ctx is
// canceled. It always returns within timeout plus one interval, along with
// the last snapshot it fetched.
func (p *Poller) AwaitGrowth(ctx context.Context, baseline int, timeout time.Duration) (Outcome, domain.Snapshot) {
	maxFailures := p.MaxReadFailures
	if maxFailures <= 0 {
		maxFailures = defaultMaxReadFailures
	}

	start := time.Now()
	var last domain.Snapshot
	failures := 0

	timer := time.NewTimer(p.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return Canceled, last
		case <-timer.C:
		}

		if p.Progress != nil {
			p.Progress(time.Since(start), timeout)
		}

		p.Store.Invalidate()
		snap, err := p.Store.Fetch(ctx)
		last = snap
		if err != nil {
			failures++
			if failures >= maxFailures {
				return StoreUnavailable, last
			}
		} else {
			failures = 0
			if snap.Count() > baseline {
				return Completed, snap
			}
		}

		if time.Since(start) >= timeout {
			return TimedOut, last
		}
		timer.Reset(p.Interval)
	}
}
