// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/ranking"
	"github.com/danielhkuo/pickpair/store"
)

// DefaultStoreTimeout bounds every store call when Options leaves it unset
const DefaultStoreTimeout = 5 * time.Second

type Options struct {
	StoreTimeout    time.Duration
	PopulationLimit int // 0 samples from the whole population
	Sampler         *ranking.Sampler
	Logger          *slog.Logger
}

// roundState is one of loading, ready or resolved. Exactly one is held
// at a time, and a pair or outcome only exists in the states that own one.
type roundState interface {
	name() string
}

type loading struct{}

type ready struct {
	pair models.Pair
}

type resolved struct {
	pair    models.Pair
	outcome models.Outcome
}

func (loading) name() string  { return models.StateLoading }
func (ready) name() string    { return models.StateReady }
func (resolved) name() string { return models.StateResolved }

// Controller runs the round lifecycle for one voter:
//
//	Loading -> Ready(pair) -> Resolved(pair, outcome) -> Ready(next pair)
//
// Calls are serialized per controller. Many controllers may share a store.
type Controller struct {
	mu sync.Mutex

	id      string
	store   store.ItemStore
	sampler *ranking.Sampler
	timeout time.Duration
	limit   int
	logger  *slog.Logger

	state      roundState
	lastActive time.Time
}

func NewController(id string, s store.ItemStore, opts Options) *Controller {
	sampler := opts.Sampler
	if sampler == nil {
		sampler = ranking.NewSampler()
	}
	timeout := opts.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		id:         id,
		store:      s,
		sampler:    sampler,
		timeout:    timeout,
		limit:      opts.PopulationLimit,
		logger:     logger.With("session_id", id),
		state:      loading{},
		lastActive: time.Now(),
	}
}

func (c *Controller) ID() string { return c.id }

// State returns the current state name
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.name()
}

// Start samples the first pair. Valid only while loading; on failure the
// controller stays loading so Start can be retried.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if _, ok := c.state.(loading); !ok {
		return fmt.Errorf("%w: start in state %s", models.ErrInvalidTransition, c.state.name())
	}

	pair, err := c.samplePair(ctx)
	if err != nil {
		c.logger.Warn("round start failed", "error", err)
		return err
	}

	c.state = ready{pair: pair}
	c.logger.Info("round ready", "left", pair[0].ID, "right", pair[1].ID)
	return nil
}

// Choose records a preference for pair[index] and persists both deltas.
//
// Once submitted, the writes run to completion even if ctx is canceled;
// only the store timeout bounds them. Results:
//
//   - success: Resolved with a correct/incorrect outcome
//   - nothing written, store unavailable: state unchanged, retry allowed
//   - nothing written, item vanished: round dropped, a fresh pair is sampled
//   - one of two written: Resolved with a partial outcome and ErrPartialUpdate;
//     the missing delta is not retried, since the failure may be a lost
//     response for a write that did land
func (c *Controller) Choose(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	st, ok := c.state.(ready)
	if !ok {
		return fmt.Errorf("%w: choose in state %s", models.ErrInvalidTransition, c.state.name())
	}
	if index != 0 && index != 1 {
		return fmt.Errorf("%w: index %d, want 0 or 1", models.ErrInvalidChoice, index)
	}

	eval, err := ranking.Evaluate(st.pair, st.pair[index].ID)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	applied, err := c.persist(ctx, eval)
	switch {
	case err == nil:
		outcome := models.Outcome{Correct: eval.Correct, Message: models.MessageIncorrect}
		if eval.Correct {
			outcome.Message = models.MessageCorrect
		}
		c.state = resolved{pair: st.pair, outcome: outcome}
		c.logger.Info("round resolved",
			"chosen", eval.Chosen.ItemID,
			"other", eval.Other.ItemID,
			"chosen_score", eval.ChosenScore,
			"other_score", eval.OtherScore,
			"correct", eval.Correct,
		)
		return nil

	case applied > 0:
		c.state = resolved{
			pair: st.pair,
			outcome: models.Outcome{
				Correct: eval.Correct,
				Partial: true,
				Message: "partial update: " + err.Error(),
			},
		}
		c.logger.Error("round partially persisted", "chosen", eval.Chosen.ItemID, "other", eval.Other.ItemID, "error", err)
		return fmt.Errorf("%w: %w", models.ErrPartialUpdate, err)

	case errors.Is(err, models.ErrItemNotFound):
		c.logger.Warn("round dropped, item vanished", "error", err)
		c.state = loading{}
		pair, sampleErr := c.samplePair(ctx)
		if sampleErr != nil {
			c.logger.Warn("resample after dropped round failed", "error", sampleErr)
			return errors.Join(err, sampleErr)
		}
		c.state = ready{pair: pair}
		c.logger.Info("round ready", "left", pair[0].ID, "right", pair[1].ID)
		return err

	default:
		c.logger.Warn("round not persisted", "error", err)
		return err
	}
}

// Advance moves a resolved round on to a freshly sampled pair. On failure
// the resolved round is kept.
func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if _, ok := c.state.(resolved); !ok {
		return fmt.Errorf("%w: advance in state %s", models.ErrInvalidTransition, c.state.name())
	}

	pair, err := c.samplePair(ctx)
	if err != nil {
		c.logger.Warn("advance failed", "error", err)
		return err
	}

	c.state = ready{pair: pair}
	c.logger.Info("round ready", "left", pair[0].ID, "right", pair[1].ID)
	return nil
}

// View renders the session for presentation. Counters and scores are
// shown only once the round is resolved, as they were when the choice
// was judged.
func (c *Controller) View() models.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := models.SessionView{SessionID: c.id, State: c.state.name()}

	switch st := c.state.(type) {
	case ready:
		view.Pair = []models.ItemView{hiddenView(st.pair[0]), hiddenView(st.pair[1])}
	case resolved:
		view.Pair = []models.ItemView{revealedView(st.pair[0]), revealedView(st.pair[1])}
		outcome := st.outcome
		view.Outcome = &outcome
	}

	return view
}

// Pair returns the pair on offer or just judged
func (c *Controller) Pair() (models.Pair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch st := c.state.(type) {
	case ready:
		return st.pair, true
	case resolved:
		return st.pair, true
	}
	return models.Pair{}, false
}

// Outcome returns the outcome of a resolved round
func (c *Controller) Outcome() (models.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.state.(resolved); ok {
		return st.outcome, true
	}
	return models.Outcome{}, false
}

// IdleSince reports when the controller was last used
func (c *Controller) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

func (c *Controller) touch() {
	c.lastActive = time.Now()
}

// samplePair reads the population and draws a pair. Reads only.
func (c *Controller) samplePair(ctx context.Context) (models.Pair, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	items, err := c.store.FetchAll(callCtx)
	if err != nil {
		return models.Pair{}, storeError("fetch items", err)
	}

	if c.limit > 0 && len(items) > c.limit {
		items = items[:c.limit]
	}

	return c.sampler.Sample(items)
}

// persist writes both deltas and reports how many were applied. A store
// with transactions applies both or neither.
func (c *Controller) persist(ctx context.Context, eval models.Evaluation) (int, error) {
	if batch, ok := c.store.(store.BatchApplier); ok {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		if err := batch.ApplyDeltas(callCtx, []models.Delta{eval.Chosen, eval.Other}); err != nil {
			return 0, storeError("apply deltas", err)
		}
		return 2, nil
	}

	applied := 0
	for _, d := range []models.Delta{eval.Chosen, eval.Other} {
		if err := c.applyOne(ctx, d); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func (c *Controller) applyOne(ctx context.Context, d models.Delta) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.ApplyDelta(callCtx, d.ItemID, d.Votes, d.Wins); err != nil {
		return storeError("apply delta to "+d.ItemID, err)
	}
	return nil
}

// storeError makes sure every store failure carries a known kind. Timeouts
// and unclassified backend errors become ErrStoreUnavailable.
func storeError(op string, err error) error {
	if errors.Is(err, models.ErrStoreUnavailable) ||
		errors.Is(err, models.ErrItemNotFound) ||
		errors.Is(err, models.ErrInvalidDelta) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}

func hiddenView(item models.Item) models.ItemView {
	return models.ItemView{ID: item.ID, Payload: item.Payload}
}

func revealedView(item models.Item) models.ItemView {
	votes, wins, score := item.Votes, item.Wins, ranking.Score(item)
	return models.ItemView{ID: item.ID, Payload: item.Payload, Votes: &votes, Wins: &wins, Score: &score}
}
