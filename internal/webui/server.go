package webui

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/opsdesk/instascrape/internal/dispatch"
	"github.com/opsdesk/instascrape/internal/domain"
	"github.com/opsdesk/instascrape/internal/poller"
	"github.com/opsdesk/instascrape/internal/storage"
)

// Server is the operator console: a form that dispatches scrape jobs,
// waits for the sheet to grow, and offers the result as a CSV download.
type Server struct {
	store       domain.Store
	dispatcher  domain.Dispatcher
	poll        *poller.Poller
	pollTimeout time.Duration
	roster      []string
	tmpl        *template.Template
}

func NewServer(store domain.Store, dispatcher domain.Dispatcher, poll *poller.Poller, pollTimeout time.Duration, roster []string) *Server {
	return &Server{
		store:       store,
		dispatcher:  dispatcher,
		poll:        poll,
		pollTimeout: pollTimeout,
		roster:      roster,
		tmpl:        template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// Handler wires the routes. The health probe is resolved before anything
// else so a liveness check never touches the store or the cache.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/export.csv", s.handleExport)
	mux.HandleFunc("/dashboard", s.handleDashboard)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("health") == "check" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("OK"))
			return
		}
		mux.ServeHTTP(w, r)
	})
}

type pageData struct {
	Accounts   string
	Posts      int
	MaxAccts   int
	Error      string
	Ran        bool
	StatusMsg  string
	StatusKind string // success | warning | error
	Failures   []domain.DispatchResult
	Dispatched int
	Snapshot   domain.Snapshot
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Accounts: strings.Join(s.roster, "\n"),
		Posts:    domain.MaxPosts,
		MaxAccts: domain.MaxAccounts,
	}

	if r.Method == http.MethodPost {
		s.runScrape(r, &data)
	}

	if err := s.tmpl.Execute(w, data); err != nil {
		slog.Error("render failed", "err", err)
	}
}

// runScrape is the submit → poll → read flow. All state is local to the
// request; nothing survives past the rendered response.
func (s *Server) runScrape(r *http.Request, data *pageData) {
	ctx := r.Context()

	data.Accounts = r.FormValue("accounts")
	posts, err := strconv.Atoi(r.FormValue("posts"))
	if err != nil {
		data.Error = "posts must be a number"
		return
	}
	data.Posts = posts

	req := domain.ScrapeRequest{
		Usernames: domain.SplitUsernames(r.FormValue("accounts")),
		Posts:     posts,
	}
	if err := req.Validate(); err != nil {
		data.Error = err.Error()
		return
	}

	// Row count before dispatch; an unreachable store degrades to zero,
	// same as an empty sheet.
	baseline := 0
	if snap, err := s.store.Fetch(ctx); err != nil {
		slog.Warn("baseline read failed, assuming empty sheet", "err", err)
	} else {
		baseline = snap.Count()
	}

	// One dispatch per account, in input order, continuing past failures.
	for _, res := range dispatch.All(ctx, s.dispatcher, req) {
		if res.OK {
			data.Dispatched++
			slog.Info("scrape dispatched", "account", res.Username)
		} else {
			data.Failures = append(data.Failures, res)
			slog.Warn("dispatch failed", "account", res.Username, "msg", res.Message)
		}
	}

	data.Ran = true
	if data.Dispatched == 0 {
		data.StatusKind = "error"
		data.StatusMsg = "No scrape was started; every dispatch failed."
		return
	}

	outcome, snap := s.poll.AwaitGrowth(ctx, baseline, s.pollTimeout)
	data.Snapshot = snap
	switch outcome {
	case poller.Completed:
		data.StatusKind = "success"
		data.StatusMsg = "New data arrived in the sheet. Download it below."
	case poller.TimedOut:
		data.StatusKind = "warning"
		data.StatusMsg = "The scrape is taking longer than expected. Check the sheet again in a few minutes."
	case poller.StoreUnavailable:
		data.StatusKind = "error"
		data.StatusMsg = "The sheet could not be read repeatedly; the scrape may still be running."
	case poller.Canceled:
		data.StatusKind = "warning"
		data.StatusMsg = "The wait was interrupted before new data was confirmed."
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Fetch(r.Context())
	if err != nil {
		slog.Error("export read failed", "err", err)
		http.Error(w, "sheet unavailable: "+err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+storage.ExportFilename(time.Now())+`"`)
	if err := storage.WriteCSV(w, snap); err != nil {
		slog.Error("export write failed", "err", err)
	}
}
