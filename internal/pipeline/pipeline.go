// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one search-fetch-score-rank pass for a query.
//
// Every stage runs in order. A stage that fails reports its error through
// the Notifier and hands an empty sequence to the next stage; no error
// crosses a stage boundary. The Report records, per stage, whether it
// succeeded, came back empty, or failed, so callers can tell "no matches"
// from "search failed".
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pdiddy/perplexity-search/internal/perplexity"
	"github.com/pdiddy/perplexity-search/internal/rank"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

// Searcher returns record identifiers for a query.
type Searcher interface {
	Search(ctx context.Context, q types.Query) ([]types.RecordID, error)
}

// Fetcher returns the records for a set of identifiers.
type Fetcher interface {
	Fetch(ctx context.Context, contact types.Contact, ids []types.RecordID) (types.FetchResult, error)
}

// Notifier shows an error message to the user.
type Notifier interface {
	Notify(msg string)
}

// Busy shows a progress indicator while a stage blocks. Begin returns the
// function that hides it.
type Busy interface {
	Begin(label string) (end func())
}

// Stage names a pipeline step.
type Stage string

const (
	StageSearch Stage = "search"
	StageFetch  Stage = "fetch"
	StageScore  Stage = "score"
	StageRank   Stage = "rank"
)

// Status is how a stage finished.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// StageOutcome describes one finished stage.
type StageOutcome struct {
	Stage    Stage
	Status   Status
	Count    int
	Err      error
	Duration time.Duration
}

// Report is the result of one run.
type Report struct {
	RunID    string
	Query    types.Query
	Ranked   []types.ScoredRecord
	Outcomes []StageOutcome

	// Skipped counts fetched articles dropped for missing fields.
	Skipped int
}

// Failed reports whether any stage failed.
func (r Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Outcome returns the outcome of stage s.
func (r Report) Outcome(s Stage) (StageOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Stage == s {
			return o, true
		}
	}
	return StageOutcome{}, false
}

// Runner wires the stages together. Notifier, Busy and Logger may be nil.
type Runner struct {
	Searcher Searcher
	Fetcher  Fetcher
	Scorer   perplexity.Scorer
	Notifier Notifier
	Busy     Busy
	Logger   *log.Logger
}

// Run executes the pipeline once. It returns an error only when q is
// invalid, before any stage starts.
func (r Runner) Run(ctx context.Context, q types.Query) (Report, error) {
	if err := q.Validate(); err != nil {
		return Report{}, err
	}

	rep := Report{RunID: uuid.NewString(), Query: q}
	logger := r.logger().With("run_id", rep.RunID)
	logger.Info("run started", "query", q.Term, "limit", q.Limit)

	var ids []types.RecordID
	r.stage(ctx, &rep, logger, StageSearch, "Searching papers...", "Failed to search PubMed", func(ctx context.Context) (int, error) {
		var err error
		ids, err = r.Searcher.Search(ctx, q)
		if err != nil {
			ids = nil
		}
		return len(ids), err
	})

	var records []types.Record
	r.stage(ctx, &rep, logger, StageFetch, "Fetching paper titles...", "Failed to fetch PubMed data", func(ctx context.Context) (int, error) {
		res, err := r.Fetcher.Fetch(ctx, q.Contact, ids)
		if err != nil {
			return 0, err
		}
		records = res.Records
		rep.Skipped = res.Skipped
		if res.Skipped > 0 {
			logger.Warn("articles skipped", "count", res.Skipped)
		}
		return len(records), nil
	})

	var scores []float64
	scored := r.stage(ctx, &rep, logger, StageScore, "Calculating perplexities...", "Failed to calculate perplexity", func(ctx context.Context) (int, error) {
		var err error
		scores, err = r.Scorer.Score(ctx, types.Titles(records))
		if err != nil {
			scores = nil
		}
		return len(scores), err
	})
	if !scored {
		records = nil
	}

	r.stage(ctx, &rep, logger, StageRank, "Ranking papers...", "Failed to rank papers", func(ctx context.Context) (int, error) {
		ranked, err := rank.Rank(records, scores)
		if err != nil {
			return 0, err
		}
		rep.Ranked = ranked
		return len(ranked), nil
	})

	logger.Info("run finished", "results", len(rep.Ranked), "failed", rep.Failed())
	return rep, nil
}

// stage runs fn behind the busy indicator and records its outcome. On
// error it notifies the user and returns false.
func (r Runner) stage(ctx context.Context, rep *Report, logger *log.Logger, s Stage, label, failMsg string, fn func(context.Context) (int, error)) bool {
	end := func() {}
	if r.Busy != nil {
		end = r.Busy.Begin(label)
	}
	start := time.Now()
	n, err := fn(ctx)
	end()

	out := StageOutcome{Stage: s, Count: n, Err: err, Duration: time.Since(start)}
	switch {
	case err != nil:
		out.Status = StatusFailed
		out.Count = 0
		logger.Error("stage failed", "stage", s, "error", err)
		if r.Notifier != nil {
			r.Notifier.Notify(fmt.Sprintf("%s: %v", failMsg, err))
		}
	case n == 0:
		out.Status = StatusEmpty
	default:
		out.Status = StatusOK
	}
	logger.Debug("stage done", "stage", s, "status", out.Status, "count", out.Count, "duration", out.Duration)
	rep.Outcomes = append(rep.Outcomes, out)
	return err == nil
}

func (r Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
