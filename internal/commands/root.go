package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/encryption"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "goxor [flags] command [flags]"
	root.Short = "Bulk file encryption with a repeating-key XOR stream"
	root.Long = `Encrypts and decrypts files with a repeating-key XOR stream cipher.
Each output starts with a 16-byte header recording the original size.

The cipher is NOT secure; it offers obfuscation only.`

	// Persistent, so that flags may follow the subcommand.
	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	flags.Bool("dry", false, "Show which files would be processed without processing them")
	flags.Bool("stats", false, "Print statistics after processing")
	flags.Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")
	flags.String("chunk-size", "32KiB", "Bytes processed per read, e.g. 4KiB or 1MB")
	flags.StringP("output", "o", "", "Directory to write outputs to, mirroring the input layout (default: next to input)")

	flags.StringP("key", "k", "", "Encryption key")
	flags.StringP("key-file", "f", "", "Path to a file holding the encryption key")
	flags.Bool("ask", false, "Prompt for the encryption key on the terminal")

	flags.String("suffix", "", "Only process files ending in this suffix, e.g. .txt")
	flags.StringSliceP("include", "i", nil, "Include files matching the pattern (find -path semantics)")
	flags.StringSliceP("exclude", "e", nil, "Exclude files matching the pattern (find -path semantics)")
	flags.String("include-from", "", "JSONC file with include patterns")
	flags.String("exclude-from", "", "JSONC file with exclude patterns")

	flags.String("encrypt-ext", encryption.DefaultSuffix, "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewCheckCommand(cfg),
		NewInspectCommand(cfg),
		NewGenerateCommand(cfg),
	)

	return root
}
