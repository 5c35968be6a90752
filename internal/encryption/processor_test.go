package encryption_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tink-crypto/tink-go/v2/subtle/random"

	"github.com/idelchi/goblock/internal/config"
	"github.com/idelchi/goblock/internal/encryption"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// writeFile creates a file with the given content inside dir and returns its
// path.
func writeFile(t *testing.T, dir, name string, content []byte, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, perm))

	return path
}

func newConfig(files ...string) *config.Config {
	return &config.Config{
		Key:           testKey,
		Parallel:      2,
		EncryptSuffix: ".enc",
		Quiet:         true,
		Files:         files,
	}
}

func runProcessor(t *testing.T, cfg *config.Config) (processed, errored int) {
	t.Helper()

	proc, err := encryption.NewProcessor(cfg)
	require.NoError(t, err)

	processed, errored, _, err = proc.ProcessFiles()
	require.NoError(t, err)

	return processed, errored
}

func TestProcessorRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
	}{
		{name: "empty", content: nil},
		{name: "short", content: []byte("hello, world")},
		{name: "block aligned", content: bytes.Repeat([]byte{0xab}, 64)},
		{name: "large", content: random.GetRandomBytes(1 << 18)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			input := writeFile(t, dir, "input.bin", tc.content, 0o600)

			processed, errored := runProcessor(t, newConfig(input))
			assert.Equal(t, 1, processed)
			assert.Zero(t, errored)

			encrypted := input + ".enc"

			ciphertext, err := os.ReadFile(encrypted)
			require.NoError(t, err)
			assert.NotEqual(t, tc.content, ciphertext)

			cfg := newConfig(encrypted)
			cfg.Decrypt = true
			cfg.DecryptSuffix = ".out"

			processed, errored = runProcessor(t, cfg)
			assert.Equal(t, 1, processed)
			assert.Zero(t, errored)

			plaintext, err := os.ReadFile(input + ".out")
			require.NoError(t, err)

			if len(tc.content) == 0 {
				assert.Empty(t, plaintext)
			} else {
				assert.Equal(t, tc.content, plaintext)
			}
		})
	}
}

func TestProcessorWrongKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "secret.txt", []byte("attack at dawn"), 0o600)

	processed, errored := runProcessor(t, newConfig(input))
	require.Equal(t, 1, processed)
	require.Zero(t, errored)

	cfg := newConfig(input + ".enc")
	cfg.Key = "ffffffffffffffffffffffffffffffff"
	cfg.Decrypt = true
	cfg.DecryptSuffix = ".bad"

	proc, err := encryption.NewProcessor(cfg)
	require.NoError(t, err)

	// A wrong key almost always fails the padding check. On the off chance
	// the garbage decrypt carries a valid pad, the recovered bytes still
	// cannot match the original plaintext.
	if _, errored, _, err := proc.ProcessFiles(); err == nil {
		require.Zero(t, errored)

		garbage, err := os.ReadFile(input + ".bad")
		require.NoError(t, err)
		assert.NotEqual(t, []byte("attack at dawn"), garbage)
	}
}

func TestProcessorNoPadding(t *testing.T) {
	t.Parallel()

	t.Run("aligned", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		content := bytes.Repeat([]byte{0x5a}, 48)
		input := writeFile(t, dir, "aligned.bin", content, 0o600)

		cfg := newConfig(input)
		cfg.NoPadding = true

		processed, errored := runProcessor(t, cfg)
		require.Equal(t, 1, processed)
		require.Zero(t, errored)

		cfg = newConfig(input + ".enc")
		cfg.Decrypt = true
		cfg.DecryptSuffix = ".out"

		processed, errored = runProcessor(t, cfg)
		require.Equal(t, 1, processed)
		require.Zero(t, errored)

		plaintext, err := os.ReadFile(input + ".out")
		require.NoError(t, err)
		assert.Equal(t, content, plaintext)
	})

	t.Run("unaligned", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "unaligned.bin", []byte("seventeen bytes!!"), 0o600)

		cfg := newConfig(input)
		cfg.NoPadding = true

		proc, err := encryption.NewProcessor(cfg)
		require.NoError(t, err)

		_, errored, _, err := proc.ProcessFiles()
		assert.Error(t, err)
		assert.Equal(t, 1, errored)

		assert.NoFileExists(t, input+".enc")
	})
}

func TestProcessorExecutableBit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "script.sh", []byte("#!/bin/sh\necho hi\n"), 0o755)

	processed, errored := runProcessor(t, newConfig(input))
	require.Equal(t, 1, processed)
	require.Zero(t, errored)

	cfg := newConfig(input + ".enc")
	cfg.Decrypt = true
	cfg.DecryptSuffix = ".out"

	processed, errored = runProcessor(t, cfg)
	require.Equal(t, 1, processed)
	require.Zero(t, errored)

	info, err := os.Stat(input + ".out")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}

func TestProcessorDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "gone.txt", []byte("remove me"), 0o600)

	cfg := newConfig(input)
	cfg.Delete = true

	processed, errored := runProcessor(t, cfg)
	require.Equal(t, 1, processed)
	require.Zero(t, errored)

	assert.NoFileExists(t, input)
	assert.FileExists(t, input+".enc")
}

func TestProcessorEnvelope(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "plain.txt", []byte("header check"), 0o600)

	processed, errored := runProcessor(t, newConfig(input))
	require.Equal(t, 1, processed)
	require.Zero(t, errored)

	ciphertext, err := os.ReadFile(input + ".enc")
	require.NoError(t, err)

	// magic + version + flags + mode, then the IV, then one padded block
	require.GreaterOrEqual(t, len(ciphertext), 7+16+16)
	assert.Equal(t, []byte("GOBK"), ciphertext[:4])
	assert.Equal(t, byte(1), ciphertext[4])
}

func TestProcessorKeyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keyFile := writeFile(t, dir, "key.txt", []byte(testKey+"\n"), 0o600)
	input := writeFile(t, dir, "data.txt", []byte("from key file"), 0o600)

	cfg := newConfig(input)
	cfg.Key = ""
	cfg.KeyFile = keyFile

	processed, errored := runProcessor(t, cfg)
	assert.Equal(t, 1, processed)
	assert.Zero(t, errored)
}

func TestNewProcessorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{
			name: "no key",
			mutate: func(c *config.Config) {
				c.Key = ""
			},
		},
		{
			name: "key not hex",
			mutate: func(c *config.Config) {
				c.Key = "zzzz"
			},
		},
		{
			name: "key wrong length",
			mutate: func(c *config.Config) {
				c.Key = hex.EncodeToString(bytes.Repeat([]byte{1}, 15))
			},
		},
		{
			name: "missing key file",
			mutate: func(c *config.Config) {
				c.Key = ""
				c.KeyFile = filepath.Join(t.TempDir(), "nope")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := newConfig("a.txt")
			tc.mutate(cfg)

			_, err := encryption.NewProcessor(cfg)
			assert.Error(t, err)
		})
	}
}
