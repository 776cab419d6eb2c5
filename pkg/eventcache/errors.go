package eventcache

import "errors"

var (
	ErrStoreNil  = errors.New("eventcache: store is nil")
	ErrSourceNil = errors.New("eventcache: source is nil")
)
