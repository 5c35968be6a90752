package blockstream

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
	"fmt"
)

// BlockSize is the fixed block size operated on by every Engine.
const BlockSize = 16

// Direction selects which transform variant an Engine applies.
type Direction byte

const (
	// Encrypt transforms plaintext blocks into ciphertext.
	Encrypt Direction = iota
	// Decrypt transforms ciphertext blocks into plaintext.
	Decrypt
)

// Engine is the block-cipher collaborator driven by a Session. It owns the
// key schedule and the CBC chaining value; the Session owns the workspace
// and only ever requests transforms of whole blocks.
type Engine interface {
	// SetKey installs the cipher key.
	SetKey(key []byte) error

	// SetIV installs or replaces the chaining value.
	SetIV(iv []byte) error

	// Transform processes buf in place in the given direction and returns
	// the number of bytes consumed. len(buf) is always a multiple of
	// BlockSize.
	Transform(dir Direction, buf []byte) (int, error)
}

// aesEngine chains AES blocks in CBC mode. The chaining value persists
// across Transform calls until SetIV replaces it.
type aesEngine struct {
	block cipher.Block
	iv    [BlockSize]byte
	tmp   [BlockSize]byte
}

// NewAESEngine returns an Engine backed by AES-128/192/256 depending on the
// installed key length.
func NewAESEngine() Engine {
	return &aesEngine{}
}

func (e *aesEngine) SetKey(key []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	e.block = block

	return nil
}

func (e *aesEngine) SetIV(iv []byte) error {
	if len(iv) != BlockSize {
		return ErrInvalidIVSize
	}

	copy(e.iv[:], iv)

	return nil
}

func (e *aesEngine) Transform(dir Direction, buf []byte) (int, error) {
	if e.block == nil {
		return 0, errors.New("no key installed")
	}

	if len(buf)%BlockSize != 0 {
		return 0, ErrUnalignedInput
	}

	switch dir {
	case Encrypt:
		for off := 0; off < len(buf); off += BlockSize {
			blk := buf[off : off+BlockSize]
			subtle.XORBytes(blk, blk, e.iv[:])
			e.block.Encrypt(blk, blk)
			copy(e.iv[:], blk)
		}

	case Decrypt:
		for off := 0; off < len(buf); off += BlockSize {
			blk := buf[off : off+BlockSize]
			// The ciphertext block becomes the next chaining value.
			copy(e.tmp[:], blk)
			e.block.Decrypt(blk, blk)
			subtle.XORBytes(blk, blk, e.iv[:])
			copy(e.iv[:], e.tmp[:])
		}

	default:
		return 0, fmt.Errorf("unknown direction: %d", dir)
	}

	return len(buf), nil
}
