package events

import "errors"

var (
	ErrStoreNil           = errors.New("events: store is nil")
	ErrFetcherNil         = errors.New("events: fetcher is nil")
	ErrEventNotFound      = errors.New("events: event not found")
	ErrSubscriptionClosed = errors.New("events: subscription closed unexpectedly")
)
