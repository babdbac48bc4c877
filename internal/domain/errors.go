package domain

import "errors"

var (
	// ErrNoData means the provider understood the request but has nothing
	// for that symbol. It is not a failure and must not be retried.
	ErrNoData = errors.New("no data for symbol")

	// ErrUnavailable means the provider cannot serve requests right now
	// (missing credential, exhausted rate budget).
	ErrUnavailable = errors.New("provider unavailable")

	// ErrAllProvidersFailed means every provider in the chain was
	// unavailable, exhausted its retries, or had no data.
	ErrAllProvidersFailed = errors.New("all providers failed")

	ErrInvalidSymbol = errors.New("invalid symbol")
)
