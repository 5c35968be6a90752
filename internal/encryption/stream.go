package encryption

import (
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/subtle/random"

	"github.com/idelchi/goblock/pkg/blockstream"
)

// encryptStream writes the envelope header, a fresh random IV, and the
// CBC ciphertext of reader to writer.
func (p *Processor) encryptStream(reader io.Reader, writer io.Writer, isExec bool) error {
	header := newEnvelopeHeader(modeCBC, isExec, p.cfg.NoPadding)
	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	iv := random.GetRandomBytes(blockstream.BlockSize)
	if _, err := writer.Write(iv); err != nil {
		return fmt.Errorf("writing IV: %w", err)
	}

	session, err := blockstream.New(
		blockstream.ModeCBC, blockstream.Encrypt, p.key, iv, !p.cfg.NoPadding,
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	return pump(session, reader, writer)
}

// decryptStream parses the envelope, reads the IV, and streams the
// plaintext of reader to writer. It returns whether the original file was
// executable.
func (p *Processor) decryptStream(reader io.Reader, writer io.Writer) (bool, error) {
	header := make([]byte, envelopeHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return false, fmt.Errorf("reading header: %w", err)
	}

	_, exec, noPadding, err := parseEnvelopeHeader(header)
	if err != nil {
		return false, err
	}

	iv := make([]byte, blockstream.BlockSize)
	if _, err := io.ReadFull(reader, iv); err != nil {
		return false, fmt.Errorf("reading IV: %w", err)
	}

	session, err := blockstream.New(
		blockstream.ModeCBC, blockstream.Decrypt, p.key, iv, !noPadding,
	)
	if err != nil {
		return false, fmt.Errorf("creating session: %w", err)
	}

	return exec, pump(session, reader, writer)
}

// pump drives a session over the whole of reader, writing the output as it
// becomes available.
func pump(session *blockstream.Session, reader io.Reader, writer io.Writer) error {
	buf, ok := bufferPool.Get().([]byte)
	if !ok {
		return fmt.Errorf("%w: invalid buffer type from pool", ErrProcessing)
	}

	defer bufferPool.Put(buf) //nolint:staticcheck

	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			out, err := session.Process(buf[:n])
			if err != nil {
				return fmt.Errorf("processing chunk: %w", err)
			}

			if _, err := writer.Write(out); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}

		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			return fmt.Errorf("reading input: %w", readErr)
		}
	}

	final, err := session.Finish()
	if err != nil {
		return fmt.Errorf("finalizing: %w", err)
	}

	if _, err := writer.Write(final); err != nil {
		return fmt.Errorf("writing final output: %w", err)
	}

	return nil
}
