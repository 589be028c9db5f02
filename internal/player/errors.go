package player

import "errors"

// ErrUnsupportedFormat is returned for files no decoder can handle.
var ErrUnsupportedFormat = errors.New("unsupported format")
