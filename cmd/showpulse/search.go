package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/services/tmdb"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	Add int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search TMDB for TV shows",
	Example: `showpulse search severance
  showpulse search "the bear" --add 136315`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchFlags.Add, "add", 0, "Track the result with this TMDB id")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := setup(os.Stderr, true)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	library := controllers.NewLibraryController(a.store, a.source, nil, nil, a.logger)

	result, err := library.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	tracked, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	trackedIDs := lo.SliceToMap(tracked, func(show models.TrackedShow) (int, bool) {
		return show.TMDBID, true
	})

	if searchFlags.Add != 0 {
		match, ok := lo.Find(result.Results, func(s tmdb.SearchShow) bool { return s.ID == searchFlags.Add })
		if !ok {
			return fmt.Errorf("TMDB id %d is not in the search results", searchFlags.Add)
		}
		show, err := library.AddShow(ctx, controllers.AddShowRequest{
			TMDBID:       match.ID,
			Title:        match.Name,
			PosterPath:   match.PosterPath,
			FirstAirDate: match.FirstAirDate,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Now tracking %s (%d)\n", show.Title, show.TMDBID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFIRST AIR\tTRACKED")
	for _, show := range result.Results {
		mark := ""
		if trackedIDs[show.ID] {
			mark = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", show.ID, show.Name, orDash(show.FirstAirDate), mark)
	}
	return w.Flush()
}
