package worker

import (
	"context"
	"encoding/json"
	"time"

	"sjsage522/vintedscout/internal/client"
	"sjsage522/vintedscout/internal/market"
	"sjsage522/vintedscout/internal/pipeline"
	"sjsage522/vintedscout/internal/search"
	"sjsage522/vintedscout/logger"
	"sjsage522/vintedscout/services/publisher"
	"sjsage522/vintedscout/services/reporter"

	"github.com/google/uuid"
)

// Evaluator decides whether a listing matches the criteria
type Evaluator interface {
	Evaluate(ctx context.Context, listing market.Listing, criteria market.SearchCriteria) (pipeline.Decision, error)
}

// Options holds the collaborators of a Worker
type Options struct {
	Items     client.ItemFetcher
	Evaluator Evaluator
	Reporter  reporter.Reporter
	// Publisher is optional; nil skips publishing
	Publisher publisher.Publisher
	ItemsURL  string
	Criteria  market.SearchCriteria
	// Interval is the delay between runs; zero runs once
	Interval time.Duration
	Logger   *logger.Logger
}

// Summary describes one run, including runs that ended in an error
type Summary struct {
	RunID    string
	Listings int
	Matches  int
	Skipped  map[pipeline.SkipReason]int
	Elapsed  time.Duration
}

// Worker handles the search, evaluation and reporting process
type Worker struct {
	ctx       context.Context
	items     client.ItemFetcher
	evaluator Evaluator
	reporter  reporter.Reporter
	publisher publisher.Publisher
	itemsURL  string
	criteria  market.SearchCriteria
	interval  time.Duration
	log       *logger.Logger
	newRunID  func() string
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, opts Options) *Worker {
	log := opts.Logger
	if log == nil {
		log = logger.ForWorker()
	}
	return &Worker{
		ctx:       ctx,
		items:     opts.Items,
		evaluator: opts.Evaluator,
		reporter:  opts.Reporter,
		publisher: opts.Publisher,
		itemsURL:  opts.ItemsURL,
		criteria:  opts.Criteria,
		interval:  opts.Interval,
		log:       log,
		newRunID:  uuid.NewString,
	}
}

// Start runs the search once, or every interval until the context is done.
// In single run mode the run error is returned; in loop mode failed runs are
// logged and the loop carries on.
func (w *Worker) Start() error {
	if w.interval <= 0 {
		_, err := w.RunOnce()
		return err
	}

	for {
		if _, err := w.RunOnce(); err != nil {
			if w.ctx.Err() != nil {
				return nil
			}
			w.log.Error().Err(err).Msg("Run failed")
		}

		select {
		case <-w.ctx.Done():
			return nil
		case <-time.After(w.interval):
		}
	}
}

// RunOnce performs one search, evaluates every listing in page order and
// reports the matches. Any fetch failure ends the run; Elapsed is set either way.
func (w *Worker) RunOnce() (summary Summary, err error) {
	start := time.Now()
	summary = Summary{
		RunID:   w.newRunID(),
		Skipped: make(map[pipeline.SkipReason]int),
	}
	defer func() { summary.Elapsed = time.Since(start) }()
	log := w.log.WithRun(summary.RunID)

	url := search.BuildURL(w.itemsURL, w.criteria)
	log.Info().Str("url", url).Msg("Searching items")

	listings, err := w.items.FetchItems(w.ctx, url)
	if err != nil {
		return summary, err
	}
	summary.Listings = len(listings)

	matches := make([]market.MatchResult, 0)
	for i, listing := range listings {
		log.Info().Msgf("Looking for item %d/%d", i+1, len(listings))

		decision, err := w.evaluator.Evaluate(w.ctx, listing, w.criteria)
		if err != nil {
			return summary, err
		}
		if !decision.Matched() {
			summary.Skipped[decision.Reason]++
			log.Info().
				Int64("listing_id", listing.ID).
				Str("reason", string(decision.Reason)).
				Msgf("Skipping item: %s", decision.Detail)
			continue
		}
		matches = append(matches, *decision.Match)
	}
	summary.Matches = len(matches)

	if err := w.reporter.Report(matches); err != nil {
		return summary, err
	}
	w.publish(log, summary.RunID, matches)

	summary.Elapsed = time.Since(start)
	log.Info().
		Int("listings", summary.Listings).
		Int("matches", summary.Matches).
		Interface("skipped", summary.Skipped).
		Dur("elapsed", summary.Elapsed).
		Msg("Run finished")

	return summary, nil
}

// publish sends each match to the publisher. Failures are logged only.
func (w *Worker) publish(log *logger.Logger, runID string, matches []market.MatchResult) {
	if w.publisher == nil {
		return
	}

	for _, match := range matches {
		data, err := json.Marshal(match)
		if err != nil {
			log.Error().Err(err).Int64("listing_id", match.ListingID).Msg("Failed to encode match")
			continue
		}
		if err := w.publisher.Publish(runID, data); err != nil {
			log.Error().Err(err).Int64("listing_id", match.ListingID).Msg("Failed to publish match")
		}
	}

	// Trim the stream after publishing
	if err := w.publisher.TrimStreams(); err != nil {
		log.Error().Err(err).Msg("Failed to trim stream")
	}
}
