package model

import "errors"

var (
	// ErrSourceUnavailable marks a transport-level failure reaching the
	// converter snapshot source. Retried on the next trigger.
	ErrSourceUnavailable = errors.New("snapshot source unavailable")

	// ErrSourceTimeout marks a source call that exceeded its deadline.
	ErrSourceTimeout = errors.New("snapshot source timeout")

	// ErrAlreadyRefreshing is returned by Refresh when another refresh is
	// in flight; the call is a no-op, not queued.
	ErrAlreadyRefreshing = errors.New("refresh already in flight")

	// ErrNoSnapshot is returned on the read path before the first
	// successful refresh has populated the cache.
	ErrNoSnapshot = errors.New("no cached snapshot available")

	// ErrUnknownFormat is returned for an unrecognized output format tag.
	ErrUnknownFormat = errors.New("unknown ticker format")
)
