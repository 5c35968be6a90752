package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/goblock/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "goblock [flags] command [flags]"
	root.Short = "File encryption utility"
	root.Long = `A file encryption utility built on streaming AES-CBC sessions.
Provides commands for key generation, encryption, and decryption.`

	root.PersistentFlags().StringP("key", "k", "", "Encryption key (16, 24, or 32 bytes, hex-encoded)")
	root.PersistentFlags().
		StringP("key-file", "f", "", "Path to the key file with the encryption key (16, 24, or 32 bytes, hex-encoded)")

	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	root.PersistentFlags().Bool("dry", false, "Show what would be done without doing it")
	root.PersistentFlags().Bool("stats", false, "Print processing statistics")
	root.PersistentFlags().Bool("preserve-timestamps", false, "Copy the input file timestamps to the output file")

	root.PersistentFlags().Bool("no-padding", false, "Disable padding, input sizes must be a multiple of 16 bytes")

	root.PersistentFlags().String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	root.PersistentFlags().
		String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.AddCommand(NewEncryptCommand(), NewDecryptCommand(), NewGenerateCommand())

	return root
}

// Execute runs the root command for the application.
func Execute(version string) error {
	root := NewRootCommand(version)

	if err := root.Execute(); err != nil {
		return fmt.Errorf("executing command: %w", err)
	}

	return nil
}

// bindFlags registers the command's own and inherited flags with viper so
// they can be unmarshalled into the configuration struct.
func bindFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return fmt.Errorf("binding inherited flags: %w", err)
	}

	return nil
}

// loadConfig unmarshals all bound settings into a Config, resolves the
// positional args into it, and validates the result.
func loadConfig(args []string) (*config.Config, error) {
	var cfg config.Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Files = args

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
