package blockstream

import (
	"bytes"
	"errors"
	"testing"
)

func TestAESEngineChaining(t *testing.T) {
	t.Parallel()

	key := make([]byte, 16)
	iv := make([]byte, BlockSize)
	data := bytes.Repeat([]byte{0xAB}, 4*BlockSize)

	// One call over four blocks.
	single := NewAESEngine()
	if err := single.SetKey(key); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	if err := single.SetIV(iv); err != nil {
		t.Fatalf("SetIV: %v", err)
	}

	oneShot := append([]byte(nil), data...)
	if _, err := single.Transform(Encrypt, oneShot); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	// Four calls over one block each; chaining must carry across calls.
	split := NewAESEngine()
	if err := split.SetKey(key); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	if err := split.SetIV(iv); err != nil {
		t.Fatalf("SetIV: %v", err)
	}

	blockwise := append([]byte(nil), data...)
	for off := 0; off < len(blockwise); off += BlockSize {
		if _, err := split.Transform(Encrypt, blockwise[off:off+BlockSize]); err != nil {
			t.Fatalf("Transform: %v", err)
		}
	}

	if !bytes.Equal(oneShot, blockwise) {
		t.Error("blockwise transforms diverge from one-shot transform")
	}

	// And back again.
	if err := split.SetIV(iv); err != nil {
		t.Fatalf("SetIV: %v", err)
	}

	if _, err := split.Transform(Decrypt, blockwise); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	if !bytes.Equal(blockwise, data) {
		t.Error("decrypt did not invert encrypt")
	}
}

func TestAESEngineErrors(t *testing.T) {
	t.Parallel()

	engine := NewAESEngine()

	if _, err := engine.Transform(Encrypt, make([]byte, BlockSize)); err == nil {
		t.Error("expected error when transforming without a key")
	}

	if err := engine.SetKey(make([]byte, 16)); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	if err := engine.SetIV(make([]byte, 8)); !errors.Is(err, ErrInvalidIVSize) {
		t.Errorf("SetIV error = %v, want ErrInvalidIVSize", err)
	}

	if _, err := engine.Transform(Encrypt, make([]byte, 17)); !errors.Is(err, ErrUnalignedInput) {
		t.Errorf("Transform error = %v, want ErrUnalignedInput", err)
	}

	if _, err := engine.Transform(Direction(9), make([]byte, BlockSize)); err == nil {
		t.Error("expected error for unknown direction")
	}

	if err := engine.SetKey(make([]byte, 20)); err == nil {
		t.Error("expected error for 20-byte key")
	}
}
