// Package query drives a weather lookup from a place name to committed state:
// fetch, transform, commit, record in history.
package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/metrics"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	// ErrEmptyQuery is returned for a blank key; nothing else happens.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrSuperseded is returned when a newer submission started before this one
	// completed. The stale result is discarded.
	ErrSuperseded = errors.New("query superseded by a newer one")
)

const (
	// GenericFailureMessage is shown when the provider gave no usable message.
	GenericFailureMessage = "An error occurred while fetching the weather. Please try again."

	// TimeoutMessage is shown when the provider did not answer in time.
	TimeoutMessage = "The weather request timed out. Please try again."
)

// HistoryRecorder is the slice of history.Ledger the controller needs.
type HistoryRecorder interface {
	Add(ctx context.Context, key string) ([]string, error)
	Entries() []string
}

// Controller owns the query State. Submissions are never queued or merged:
// each one gets a token, and only the latest token may commit.
type Controller struct {
	provider  weather.Provider
	history   HistoryRecorder
	notifiers []Notifier
	timeout   time.Duration
	now       func() time.Time

	// commitMu serializes commits so history is written in commit order.
	commitMu sync.Mutex

	mu       sync.Mutex
	latest   uint64
	state    State
	lastGood *Result
}

// Option customizes a Controller.
type Option func(*Controller)

// WithNotifier adds a receiver of output events.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifiers = append(c.notifiers, n)
		}
	}
}

// WithTimeout bounds each provider call. Zero means no deadline beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates an Idle controller. history may be nil.
func New(provider weather.Provider, history HistoryRecorder, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		history:  history,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = State{Status: StatusIdle, UpdatedAt: c.now().UTC()}
	return c
}

// Submit runs one query for key and blocks until it resolves. It may be
// called concurrently; a call overtaken by a newer one returns ErrSuperseded
// and leaves no trace. Failures are reported both as the returned error and as
// a Failed state whose Reason is fit for display.
func (c *Controller) Submit(ctx context.Context, key string) (State, error) {
	k := weather.QueryKey(key)
	if k.Blank() {
		metrics.QueriesTotal.WithLabelValues("rejected").Inc()
		return c.State(), ErrEmptyQuery
	}

	token, loading := c.begin(k)
	c.emitState(loading)
	c.emitLoading(true)
	defer c.finish(token)

	logging.Debug("query started", "key", key, "token", token)

	fetchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	report, err := c.provider.Fetch(fetchCtx, k)
	if err != nil {
		return c.fail(token, k, err)
	}

	series, err := weather.TransformForecast(report.ForecastDays)
	if err != nil {
		return c.fail(token, k, err)
	}

	return c.commit(ctx, token, k, report.Conditions, series)
}

func (c *Controller) begin(k weather.QueryKey) (uint64, State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest++
	next := State{
		Status:    StatusLoading,
		Key:       k,
		Token:     c.latest,
		UpdatedAt: c.now().UTC(),
	}
	c.keepLastGood(&next)
	c.state = next
	return c.latest, next.clone()
}

func (c *Controller) commit(ctx context.Context, token uint64, k weather.QueryKey, cond weather.CurrentConditions, series weather.ForecastSeries) (State, error) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	if token != c.latest {
		current := c.state.clone()
		c.mu.Unlock()
		metrics.QueriesTotal.WithLabelValues("superseded").Inc()
		logging.Debug("discarding stale result", "key", string(k), "token", token)
		return current, ErrSuperseded
	}

	now := c.now().UTC()
	c.lastGood = &Result{Key: k, Conditions: cond, Forecast: series, FetchedAt: now}
	c.state = State{
		Status:     StatusSuccess,
		Key:        k,
		Conditions: cond,
		Forecast:   series.Clone(),
		Token:      token,
		UpdatedAt:  now,
	}
	committed := c.state.clone()
	c.mu.Unlock()

	metrics.QueriesTotal.WithLabelValues("success").Inc()
	logging.Info("query succeeded", "key", string(k), "place", cond.PlaceName, "days", len(series))
	c.emitState(committed)

	if c.history != nil {
		if _, err := c.history.Add(ctx, string(k)); err != nil {
			logging.Warn("history persist failed", "key", string(k), "error", err)
		}
	}

	for _, n := range c.notifiers {
		n.InputCleared()
	}
	return committed, nil
}

func (c *Controller) fail(token uint64, k weather.QueryKey, cause error) (State, error) {
	c.mu.Lock()
	if token != c.latest {
		current := c.state.clone()
		c.mu.Unlock()
		metrics.QueriesTotal.WithLabelValues("superseded").Inc()
		logging.Debug("discarding stale failure", "key", string(k), "token", token, "error", cause)
		return current, ErrSuperseded
	}

	next := State{
		Status:    StatusFailed,
		Key:       k,
		Reason:    Reason(cause),
		Token:     token,
		UpdatedAt: c.now().UTC(),
	}
	c.keepLastGood(&next)
	c.state = next
	failed := next.clone()
	c.mu.Unlock()

	metrics.QueriesTotal.WithLabelValues("failed").Inc()
	logging.Warn("query failed", "key", string(k), "error", cause)
	c.emitState(failed)
	return failed, cause
}

// finish clears the loading indicator once per submission, on every exit
// path, unless a newer submission now owns it.
func (c *Controller) finish(token uint64) {
	c.mu.Lock()
	current := token == c.latest
	c.mu.Unlock()

	if current {
		c.emitLoading(false)
	}
}

// keepLastGood copies the last committed result into s. Caller holds c.mu.
func (c *Controller) keepLastGood(s *State) {
	if c.lastGood == nil {
		return
	}
	s.Conditions = c.lastGood.Conditions
	s.Forecast = c.lastGood.Forecast.Clone()
}

func (c *Controller) emitState(s State) {
	for _, n := range c.notifiers {
		n.StateChanged(s)
	}
}

func (c *Controller) emitLoading(loading bool) {
	for _, n := range c.notifiers {
		n.LoadingChanged(loading)
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Loading reports whether the latest submission is still in flight.
func (c *Controller) Loading() bool {
	return c.State().Status == StatusLoading
}

// LastGood returns the last committed result, if any.
func (c *Controller) LastGood() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastGood == nil {
		return Result{}, false
	}
	return c.lastGood.clone(), true
}

// History returns the search history, most recent first.
func (c *Controller) History() []string {
	if c.history == nil {
		return []string{}
	}
	return c.history.Entries()
}

// Reason turns a fetch error into a message for the user: the provider's own
// message when there is one, otherwise a generic one.
func Reason(err error) string {
	var pe *weather.ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutMessage
	}
	return GenericFailureMessage
}
