package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/barnettlynn/opacity/internal/display"
	"github.com/barnettlynn/opacity/pkg/opacity"
	"github.com/barnettlynn/opacity/pkg/pcsc"
)

var handshakeTimeout time.Duration

var handshakeCmd = &cobra.Command{
	Use:   "handshake",
	Short: "Run one Opacity handshake against a connected PIV card",
	RunE:  runHandshake,
}

func init() {
	handshakeCmd.Flags().DurationVar(&handshakeTimeout, "timeout", 10*time.Second,
		"overall deadline for the handshake")
	rootCmd.AddCommand(handshakeCmd)
}

func runHandshake(cmd *cobra.Command, args []string) error {
	idh, err := parseHostID(hostIDHex)
	if err != nil {
		return err
	}

	idx, err := resolveReaderIndex(readerIndex)
	if err != nil {
		return err
	}

	conn, err := pcsc.Connect(idx)
	if err != nil {
		return fmt.Errorf("connect to reader: %w", err)
	}
	tr := pcsc.NewTransceiver(conn)

	ctx, cancel := context.WithTimeout(cmd.Context(), handshakeTimeout)
	defer cancel()

	cfg := opacity.NewHandshakeConfig(idh, opacity.WithObserver(newSlogObserver(jsonOutput)))

	keys, metrics, err := opacity.OpenTunnel(ctx, tr, cfg)
	if err != nil {
		display.PrintError(err)
		return err
	}
	defer keys.Zeroise()

	display.PrintSessionKeys(keys, revealKeys)
	display.PrintHandshakeMetrics(metrics)
	display.PrintSuccess("handshake complete")
	return nil
}

func parseHostID(hexStr string) ([8]byte, error) {
	var idh [8]byte
	b, err := opacity.HexDecode(hexStr)
	if err != nil {
		return idh, fmt.Errorf("--host-id: %w", err)
	}
	if len(b) != len(idh) {
		return idh, fmt.Errorf("--host-id: want 8 bytes, got %d", len(b))
	}
	copy(idh[:], b)
	return idh, nil
}

// resolveReaderIndex auto-selects the sole reader when none was requested
// and exactly one is present, mirroring the single-reader convenience the
// rest of this tool family offers.
func resolveReaderIndex(requested int) (int, error) {
	if requested >= 0 {
		return requested, nil
	}
	readers, err := pcsc.ListReaders()
	if err != nil {
		return 0, fmt.Errorf("list readers: %w", err)
	}
	switch len(readers) {
	case 0:
		return 0, fmt.Errorf("no smart card readers found")
	case 1:
		display.PrintSuccess(fmt.Sprintf("auto-selected reader: %s", readers[0]))
		return 0, nil
	default:
		display.PrintReaderList(readers)
		return 0, fmt.Errorf("multiple readers found, use --reader <index> to select one")
	}
}
