package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barnettlynn/opacity/internal/display"
	"github.com/barnettlynn/opacity/pkg/pcsc"
)

var probeReadersCmd = &cobra.Command{
	Use:   "probe-readers",
	Short: "List PC/SC readers visible to this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		readers, err := pcsc.ListReaders()
		if err != nil {
			return fmt.Errorf("list readers: %w", err)
		}
		display.PrintReaderList(readers)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeReadersCmd)
}
