package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/amaumene/showpulse/internal/controllers"
	"github.com/amaumene/showpulse/internal/models"
	"github.com/amaumene/showpulse/internal/utils"
	"github.com/spf13/cobra"
)

var listFlags struct {
	Status         string
	Network        string
	Genres         []string
	Favorites      bool
	Sort           string
	Direction      string
	FavoritesFirst bool
	Hydrate        bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the tracked shows",
	Example: `showpulse list
  showpulse list --status "Returning Series" --sort nextAirDate
  showpulse list --genre Drama --genre Mystery --favorites`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listFlags.Status, "status", "", "Only shows with this status")
	f.StringVar(&listFlags.Network, "network", "", "Only shows from this network")
	f.StringSliceVar(&listFlags.Genres, "genre", nil, "Only shows having every given genre")
	f.BoolVar(&listFlags.Favorites, "favorites", false, "Only favorite shows")
	f.StringVar(&listFlags.Sort, "sort", "", "Sort key (title, dateAdded, firstAirDate, nextAirDate, lastAirDate, rating)")
	f.StringVar(&listFlags.Direction, "direction", "", "Sort direction (asc, desc)")
	f.BoolVar(&listFlags.FavoritesFirst, "favorites-first", true, "List favorites before other shows")
	f.BoolVar(&listFlags.Hydrate, "hydrate", false, "Fetch missing metadata from TMDB before listing")
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := setup(os.Stderr, false)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	if listFlags.Hydrate {
		if a.source == nil {
			return fmt.Errorf("--hydrate needs TMDB_API_KEY")
		}
		all, err := a.store.Load(ctx)
		if err != nil {
			return err
		}
		hydration := controllers.NewHydrationController(a.source, a.store, a.cfg.HydrationBatchSize, a.logger)
		hydration.Hydrate(ctx, all)
	}

	// The CLI waits for hydration itself, so the library gets no background enricher.
	library := controllers.NewLibraryController(a.store, a.source, nil, nil, a.logger)

	sort, err := listSortConfig(cmd, library)
	if err != nil {
		return err
	}

	result, err := library.List(ctx, models.FilterState{
		Status:        listFlags.Status,
		Network:       listFlags.Network,
		Genres:        listFlags.Genres,
		FavoritesOnly: listFlags.Favorites,
	}, sort)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s (%d of %d)\n\n", result.Description, len(result.Shows), result.Total)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tNEXT AIR\tLAST AIR\tNETWORK\tRATING\tFAV")
	for _, show := range result.Shows {
		rating := "-"
		if show.VoteAverage != nil {
			rating = fmt.Sprintf("%.1f", *show.VoteAverage)
		}
		fav := ""
		if show.IsFavorite {
			fav = "★"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			show.TMDBID,
			show.Title,
			orDash(result.Badges[show.TMDBID].Label),
			orDash(show.NextAirDate),
			orDash(show.LastAirDate),
			orDash(show.Network),
			rating,
			fav,
		)
	}
	return w.Flush()
}

// listSortConfig applies the sort flags on top of the persisted preference.
// It returns nil when no sort flag is set.
func listSortConfig(cmd *cobra.Command, library *controllers.LibraryController) (*models.SortConfig, error) {
	flags := cmd.Flags()
	if !flags.Changed("sort") && !flags.Changed("direction") && !flags.Changed("favorites-first") {
		return nil, nil
	}

	config, err := library.SortConfig(cmd.Context())
	if err != nil {
		return nil, err
	}
	if flags.Changed("sort") {
		key, err := utils.ParseSortKey(listFlags.Sort)
		if err != nil {
			return nil, err
		}
		config = utils.SelectSortKey(config, key)
	}
	if flags.Changed("direction") {
		direction, err := utils.ParseSortDirection(listFlags.Direction)
		if err != nil {
			return nil, err
		}
		config.Direction = direction
	}
	if flags.Changed("favorites-first") {
		config.FavoritesFirst = listFlags.FavoritesFirst
	}
	return &config, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
