package blockstream

import (
	"fmt"
)

// Mode identifies the block-chaining mode of a Session.
type Mode byte

const (
	// ModeCBC is cipher block chaining, currently the only supported mode.
	ModeCBC Mode = iota
)

// workspaceSize is the capacity of the staging buffer owned by each Session.
const workspaceSize = 4096

// Session drives an Engine across a sequence of Process calls terminated by
// a single Finish call. It stages bytes that do not yet fill a whole block
// in a fixed workspace and only ever hands aligned runs to the Engine.
//
// A Session serializes exactly one message at a time and is not safe for
// concurrent use. After Finish the cursor is reset and the Session may be
// reused for a new message; key and chaining value remain installed until
// SetIV replaces the latter.
type Session struct {
	engine  Engine
	dir     Direction
	padding bool

	// ws is the workspace; ws[pos:pos+n] holds the staged, not yet
	// transformed bytes.
	ws  []byte
	pos int
	n   int
}

// New creates a Session over the built-in AES engine.
//
// The key must be 16, 24, or 32 bytes. A nil iv installs an all-zero
// chaining value; otherwise it must be exactly one block. The padding flag
// selects PKCS#7 padding on encrypt-finish and validation/stripping on
// decrypt-finish.
func New(mode Mode, dir Direction, key, iv []byte, padding bool) (*Session, error) {
	return NewWithEngine(NewAESEngine(), mode, dir, key, iv, padding)
}

// NewWithEngine creates a Session over a caller-supplied Engine. Key and IV
// validation happens here so that engines only ever see well-formed input.
func NewWithEngine(engine Engine, mode Mode, dir Direction, key, iv []byte, padding bool) (*Session, error) {
	if mode != ModeCBC {
		return nil, fmt.Errorf("unsupported mode: %d", mode)
	}

	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeySize
	}

	if iv == nil {
		iv = make([]byte, BlockSize)
	}

	if len(iv) != BlockSize {
		return nil, ErrInvalidIVSize
	}

	if err := engine.SetKey(key); err != nil {
		return nil, fmt.Errorf("installing key: %w", err)
	}

	if err := engine.SetIV(iv); err != nil {
		return nil, fmt.Errorf("installing IV: %w", err)
	}

	return &Session{
		engine:  engine,
		dir:     dir,
		padding: padding,
		ws:      make([]byte, workspaceSize),
	}, nil
}

// SetIV replaces the chaining value, typically between messages on a reused
// Session.
func (s *Session) SetIV(iv []byte) error {
	if len(iv) != BlockSize {
		return ErrInvalidIVSize
	}

	return s.engine.SetIV(iv)
}

// Process stages chunk in the workspace and returns the output that is now
// fully determined: every whole block formed by the previously staged bytes
// and the chunk, rounded down to a multiple of BlockSize.
//
// When decrypting with padding enabled, the trailing block of the running
// total is withheld untransformed, because only Finish may release it after
// the padding has been inspected. At most one block remains staged when
// Process returns.
func (s *Session) Process(chunk []byte) ([]byte, error) {
	total := s.n + len(chunk)
	rlen := total &^ (BlockSize - 1)

	// Bytes to keep staged at the end of this call. The decrypt path
	// reserves the natural remainder, or one full block when the running
	// total is exactly aligned.
	hold := 0
	if s.dir == Decrypt && s.padding {
		hold = total - rlen
		if hold == 0 {
			hold = BlockSize
		}
	}

	out := make([]byte, 0, rlen)

	for {
		// Relocate the staged tail when it reaches the end of the
		// workspace, so staging can continue.
		if s.pos+s.n == len(s.ws) && s.pos > 0 {
			copy(s.ws, s.ws[s.pos:s.pos+s.n])
			s.pos = 0
		}

		staged := copy(s.ws[s.pos+s.n:], chunk)
		chunk = chunk[staged:]
		s.n += staged

		flush := s.n &^ (BlockSize - 1)

		if len(chunk) == 0 && hold > 0 {
			if keep := s.n - hold; keep > 0 {
				flush = keep &^ (BlockSize - 1)
			} else {
				flush = 0
			}
		}

		if flush > 0 {
			consumed, err := s.engine.Transform(s.dir, s.ws[s.pos:s.pos+flush])
			if err != nil {
				return nil, fmt.Errorf("transforming blocks: %w", err)
			}

			out = append(out, s.ws[s.pos:s.pos+consumed]...)

			s.pos += consumed
			s.n -= consumed

			if s.n == 0 {
				s.pos = 0
			}
		}

		if len(chunk) == 0 {
			return out, nil
		}
	}
}

// Finish completes the message: it pads or validates padding as configured,
// transforms any remaining staged bytes, and returns the final output.
//
// The cursor is reset and the workspace zeroed even when Finish fails, so a
// reused Session never leaks stale bytes into the next message.
func (s *Session) Finish() ([]byte, error) {
	defer s.reset()

	if s.dir == Decrypt {
		return s.finishDecrypt()
	}

	return s.finishEncrypt()
}

func (s *Session) finishEncrypt() ([]byte, error) {
	if s.padding {
		if s.pos+s.n+BlockSize > len(s.ws) {
			copy(s.ws, s.ws[s.pos:s.pos+s.n])
			s.pos = 0
		}

		s.n = pkcs7Extend(s.ws[s.pos:], s.n)
	} else if s.n%BlockSize != 0 {
		return nil, ErrUnalignedInput
	}

	if s.n == 0 {
		return nil, nil
	}

	if _, err := s.engine.Transform(s.dir, s.ws[s.pos:s.pos+s.n]); err != nil {
		return nil, fmt.Errorf("transforming final blocks: %w", err)
	}

	out := make([]byte, s.n)
	copy(out, s.ws[s.pos:s.pos+s.n])

	return out, nil
}

func (s *Session) finishDecrypt() ([]byte, error) {
	if s.n == 0 {
		return nil, nil
	}

	if s.n%BlockSize != 0 {
		return nil, ErrUnalignedInput
	}

	if _, err := s.engine.Transform(s.dir, s.ws[s.pos:s.pos+s.n]); err != nil {
		return nil, fmt.Errorf("transforming final blocks: %w", err)
	}

	buf := s.ws[s.pos : s.pos+s.n]

	if s.padding {
		var err error

		buf, err = pkcs7Strip(buf)
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, len(buf))
	copy(out, buf)

	return out, nil
}

// reset clears the cursor and zeroes the workspace. Key material stays with
// the engine; staged plaintext does not survive into the next message.
func (s *Session) reset() {
	clear(s.ws)
	s.pos = 0
	s.n = 0
}
