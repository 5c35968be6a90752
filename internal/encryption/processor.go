// Package encryption encrypts and decrypts files concurrently using
// streaming AES-CBC sessions, with atomic output replacement.
package encryption

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gogen/pkg/key"

	"github.com/idelchi/goblock/internal/config"
	"github.com/idelchi/goblock/internal/fileutil"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// key stores raw key bytes
	key []byte

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration,
// resolving and validating the key material.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	var (
		cipherKey []byte
		err       error
	)

	switch {
	case cfg.Key != "":
		cipherKey, err = key.FromHex(cfg.Key)
	case cfg.KeyFile != "":
		var data []byte

		data, err = os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		cipherKey, err = key.FromHex(strings.TrimSpace(string(data)))
	default:
		return nil, errors.New("no key provided")
	}

	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	switch len(cipherKey) {
	case 16, 24, 32:
	default:
		return nil, errors.New("key must be 16, 24, or 32 bytes (32, 48, or 64 hex characters)")
	}

	return &Processor{
		cfg:     cfg,
		key:     cipherKey,
		results: make(chan Result, len(cfg.Files)),
	}, nil
}

// ProcessFiles concurrently processes all files specified in the
// configuration. Returns the number of successfully processed files, the
// number of errors, and the total output size.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)
			} else {
				processed++

				totalSize += result.OutputSize

				if !p.cfg.Quiet {
					fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
				}
			}

			if p.cfg.Delete && result.Error == nil {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile handles the encryption or decryption of a single file through
// a temporary file that is atomically renamed on success.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	pending, err := fileutil.Begin(filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer pending.Discard()

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	const ownerReadWrite = 0o600

	perm := os.FileMode(ownerReadWrite)

	if p.cfg.Decrypt {
		execOut, err := p.decryptStream(inFile, pending.File)
		if err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}

		if execOut {
			perm |= 0o111
		}
	} else {
		if err := p.encryptStream(inFile, pending.File, pending.Executable()); err != nil {
			return 0, fmt.Errorf("encrypting file: %w", err)
		}

		if pending.Executable() {
			perm |= 0o111
		}
	}

	if err := inFile.Close(); err != nil {
		return 0, fmt.Errorf("closing input file: %w", err)
	}

	if err := pending.Commit(outPath, perm); err != nil {
		return 0, err
	}

	size, err = fileutil.Finalize(outPath, p.cfg.PreserveTimestamps, pending.ModTime())
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

// outputPath generates the output file path based on the input filename and
// the configured suffixes.
func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.EncryptSuffix

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.EncryptSuffix)
		ext = p.cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
