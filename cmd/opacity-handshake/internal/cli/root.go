// Package cli implements the opacity-handshake command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	readerIndex int
	hostIDHex   string
	revealKeys  bool
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "opacity-handshake",
	Short: "Opacity secure-tunnel handshake tool for PIV cards",
	Long: `opacity-handshake v` + version + `

Drives the NIST SP 800-73-4 Cipher Suite 2 (Opacity) handshake against a
PIV smart card over a PC/SC reader: ephemeral ECDH key agreement, KDF key
derivation, and AuthCryptogram verification, yielding four session keys
for a downstream Secure Messaging channel.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&readerIndex, "reader", "r", -1,
		"reader index (see 'opacity-handshake probe-readers')")
	rootCmd.PersistentFlags().StringVar(&hostIDHex, "host-id", "0001020304050607",
		"8-byte host identifier (IDH), hex-encoded")
	rootCmd.PersistentFlags().BoolVar(&revealKeys, "reveal-keys", false,
		"print derived session key material in full instead of redacting it")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"emit handshake log events as JSON instead of text (result tables are still printed)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
