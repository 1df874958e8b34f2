// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session runs pairwise voting rounds.

# Controller

A Controller is one voter's round state machine:

	loading --Start--> ready(pair) --Choose--> resolved(pair, outcome) --Advance--> ready(next pair)

Start and Advance only read from the store. Choose is the only operation
that writes: two additive deltas, one per item, applied in one
transaction when the store implements store.BatchApplier.

Failure handling in Choose:

  - ErrStoreUnavailable with nothing written: state unchanged, retry Choose
  - ErrItemNotFound with nothing written: round dropped, new pair sampled
  - ErrPartialUpdate: resolved with a partial outcome, no automatic retry

Calling an action in the wrong state returns ErrInvalidTransition and
changes nothing. Choose with an index outside {0, 1} returns
ErrInvalidChoice.

Every store call is bounded by Options.StoreTimeout (default 5s); expiry
surfaces as ErrStoreUnavailable.

# Manager

Manager holds concurrent sessions keyed by uuid:

	c, err := mgr.Create(ctx)
	c, err = mgr.Get(id)
	_ = mgr.Remove(id)

RunPruner drops sessions idle for longer than a configured TTL.
*/
package session
