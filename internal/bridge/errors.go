package bridge

import "errors"

// ErrInboxClosed is returned by Run when a sender closes the inbox. The
// bridge cannot run without it.
var ErrInboxClosed = errors.New("bridge: inbox closed")
