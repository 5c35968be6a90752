// The goblock command encrypts and decrypts files using streaming AES-CBC
// sessions with PKCS#7 padding.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/goblock/internal/commands"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
