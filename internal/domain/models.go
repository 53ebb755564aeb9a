package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	MaxAccounts = 5
	MinPosts    = 1
	MaxPosts    = 10
)

// Row is one spreadsheet record, keyed by column header.
type Row map[string]string

// Snapshot is a point-in-time copy of the sheet's data rows.
type Snapshot struct {
	Columns   []string
	Rows      []Row
	FetchedAt time.Time
}

func (s Snapshot) Count() int {
	return len(s.Rows)
}

// ScrapeRequest is one user submission: accounts to scrape plus how many
// posts to pull per account. It lives only for the duration of the request.
type ScrapeRequest struct {
	Usernames []string
	Posts     int
}

func (r ScrapeRequest) Validate() error {
	if len(r.Usernames) == 0 {
		return fmt.Errorf("enter at least one account")
	}
	if len(r.Usernames) > MaxAccounts {
		return fmt.Errorf("at most %d accounts per run (got %d)", MaxAccounts, len(r.Usernames))
	}
	if r.Posts < MinPosts || r.Posts > MaxPosts {
		return fmt.Errorf("posts must be between %d and %d (got %d)", MinPosts, MaxPosts, r.Posts)
	}
	return nil
}

// DispatchResult is the per-account outcome of a webhook trigger.
type DispatchResult struct {
	Username string
	OK       bool
	Message  string
}

// Store reads the external spreadsheet. Fetch may serve a cached snapshot;
// on remote failure it returns an empty snapshot along with the error so
// callers can degrade instead of aborting.
type Store interface {
	Fetch(ctx context.Context) (Snapshot, error)
	Invalidate()
}

// Dispatcher asks the external workflow to start collecting an account.
type Dispatcher interface {
	Send(ctx context.Context, username string, posts int) DispatchResult
}
