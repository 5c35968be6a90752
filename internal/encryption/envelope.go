package encryption

import (
	"bytes"
	"fmt"
)

const (
	envelopeMagic   = "GOBK"
	envelopeVersion = byte(1)

	envelopeFlagExec  = 0x01
	envelopeFlagNoPad = 0x02
)

type envelopeMode byte

const modeCBC envelopeMode = 0x01

const envelopeHeaderSize = len(envelopeMagic) + 3

// newEnvelopeHeader builds the fixed header written before the IV:
// magic, version, flags, mode.
func newEnvelopeHeader(mode envelopeMode, executable, noPadding bool) []byte {
	header := make([]byte, envelopeHeaderSize)
	copy(header, []byte(envelopeMagic))

	header[len(envelopeMagic)] = envelopeVersion

	var flags byte

	if executable {
		flags |= envelopeFlagExec
	}

	if noPadding {
		flags |= envelopeFlagNoPad
	}

	header[len(envelopeMagic)+1] = flags
	header[len(envelopeMagic)+2] = byte(mode)

	return header
}

// parseEnvelopeHeader validates the header and returns mode, executable bit,
// and padding setting.
func parseEnvelopeHeader(header []byte) (mode envelopeMode, executable, noPadding bool, err error) {
	if len(header) != envelopeHeaderSize {
		return 0, false, false, fmt.Errorf("%w: envelope header too short", ErrProcessing)
	}

	if !bytes.Equal(header[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return 0, false, false, fmt.Errorf("%w: invalid envelope magic", ErrProcessing)
	}

	version := header[len(envelopeMagic)]
	if version != envelopeVersion {
		return 0, false, false, fmt.Errorf("%w: unsupported envelope version %d", ErrProcessing, version)
	}

	flags := header[len(envelopeMagic)+1]
	mode = envelopeMode(header[len(envelopeMagic)+2])

	if mode != modeCBC {
		return 0, false, false, fmt.Errorf("%w: unsupported envelope mode %d", ErrProcessing, mode)
	}

	return mode, flags&envelopeFlagExec != 0, flags&envelopeFlagNoPad != 0, nil
}
