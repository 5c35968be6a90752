package encryption

import "errors"

// ErrProcessing indicates a malformed or truncated envelope.
var ErrProcessing = errors.New("envelope processing error")
