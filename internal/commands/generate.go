package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tink-crypto/tink-go/v2/subtle/random"
)

// NewGenerateCommand creates a new cobra command for the generate subcommand.
func NewGenerateCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new encryption key",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			switch size {
			case 16, 24, 32:
			default:
				return fmt.Errorf("invalid key size %d: must be 16, 24, or 32", size)
			}

			//nolint:gosec // size is validated above and always positive
			key := random.GetRandomBytes(uint32(size))

			fmt.Println(hex.EncodeToString(key)) //nolint:forbidigo

			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "s", 32, "Key size in bytes (16, 24, or 32)")

	return cmd
}
