package blockstream

import "errors"

var (
	// ErrInvalidKeySize is returned when the key is not 16, 24, or 32 bytes.
	ErrInvalidKeySize = errors.New("key must be 16, 24, or 32 bytes")
	// ErrInvalidIVSize is returned when a provided IV is not exactly one block.
	ErrInvalidIVSize = errors.New("IV must be 16 bytes")
	// ErrUnalignedInput is returned when a message ends on a partial block and
	// no padding is available to complete it.
	ErrUnalignedInput = errors.New("input is not a multiple of the block size")
	// ErrBadPadding is returned when decrypted padding is out of range or
	// mismatched. The cause is deliberately not distinguished further.
	ErrBadPadding = errors.New("invalid padding")
)
