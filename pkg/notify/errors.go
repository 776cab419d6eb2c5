package notify

import "errors"

var ErrStoreNil = errors.New("notify: store is nil")
