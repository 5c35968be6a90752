package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		executable bool
		noPadding  bool
	}{
		{name: "plain"},
		{name: "executable", executable: true},
		{name: "no padding", noPadding: true},
		{name: "executable without padding", executable: true, noPadding: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			header := newEnvelopeHeader(modeCBC, tc.executable, tc.noPadding)
			require.Len(t, header, envelopeHeaderSize)

			mode, executable, noPadding, err := parseEnvelopeHeader(header)
			require.NoError(t, err)

			assert.Equal(t, modeCBC, mode)
			assert.Equal(t, tc.executable, executable)
			assert.Equal(t, tc.noPadding, noPadding)
		})
	}
}

func TestEnvelopeHeaderErrors(t *testing.T) {
	t.Parallel()

	valid := newEnvelopeHeader(modeCBC, false, false)

	tests := []struct {
		name   string
		header []byte
	}{
		{name: "too short", header: valid[:envelopeHeaderSize-1]},
		{name: "bad magic", header: append([]byte("NOPE"), valid[4:]...)},
		{
			name: "bad version",
			header: func() []byte {
				h := append([]byte(nil), valid...)
				h[len(envelopeMagic)] = 99

				return h
			}(),
		},
		{
			name: "bad mode",
			header: func() []byte {
				h := append([]byte(nil), valid...)
				h[len(envelopeMagic)+2] = 0x7f

				return h
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, _, err := parseEnvelopeHeader(tc.header)
			require.ErrorIs(t, err, ErrProcessing)
		})
	}
}
