// Package config holds the runtime configuration for the goblock tool.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config captures flags, environment values, and positional arguments.
type Config struct {
	// Key is the hex-encoded cipher key (32, 48, or 64 hex characters).
	Key string `mapstructure:"key" validate:"required_without=KeyFile,excluded_with=KeyFile,omitempty,hexadecimal"`

	// KeyFile points to a file holding the hex-encoded key instead.
	KeyFile string `mapstructure:"key-file"`

	// Parallel is the number of files processed concurrently.
	Parallel int `mapstructure:"parallel" validate:"min=1"`

	// EncryptSuffix is appended to encrypted output files.
	EncryptSuffix string `mapstructure:"encrypt-ext"`

	// DecryptSuffix is appended to decrypted output files after stripping
	// the encrypted suffix.
	DecryptSuffix string `mapstructure:"decrypt-ext"`

	// NoPadding disables PKCS#7 padding; input must then be a multiple of
	// 16 bytes.
	NoPadding bool `mapstructure:"no-padding"`

	// PreserveTimestamps carries the source modification time to the output.
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	Quiet  bool `mapstructure:"quiet"`
	Delete bool `mapstructure:"delete"`
	Dry    bool `mapstructure:"dry"`
	Stats  bool `mapstructure:"stats"`

	// Decrypt switches the processing direction. Set by the subcommand.
	Decrypt bool

	// Files are the positional arguments.
	Files []string `validate:"min=1"`
}

// Validate checks the configuration against the struct tags.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}
