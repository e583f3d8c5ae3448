package main

import (
	"fmt"
	"os"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Check every tracked show for status and air date changes once",
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := setup(os.Stderr, true)
	if err != nil {
		return err
	}
	defer a.close()

	refresh := controllers.NewRefreshController(a.db, a.store, a.source, a.logger)
	result, err := refresh.RefreshAll(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Checked %d shows: %d changed, %d failed\n", result.Checked, result.Changed, result.Failed)
	return nil
}
