package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/noborus/ov/oviewer"
	"github.com/spf13/cobra"

	"mapsexplorer/internal/domain"
	"mapsexplorer/internal/logging"
	"mapsexplorer/internal/search"
)

func searchCmd() *cobra.Command {
	var (
		limit    int
		usePager bool
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Print the places matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := cfg.Search
			if limit > 0 {
				settings.Limit = limit
			}

			log := logging.NewConsole(cmd.ErrOrStderr(), cfg.Log.Level)
			client := search.NewNominatimClient(settings, log)

			query := strings.Join(args, " ")
			places, err := client.Search(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("search %q: %w", query, err)
			}

			out := renderPlaces(query, places)
			if usePager {
				return page(out)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default from config)")
	cmd.Flags().BoolVar(&usePager, "pager", false, "show the results in a pager")
	return cmd
}

func renderPlaces(query string, places []domain.Place) string {
	if len(places) == 0 {
		return fmt.Sprintf("No places found for %q\n", query)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Name", "Coordinates", "ID")
	for i, p := range places {
		t.Row(strconv.Itoa(i+1), p.Name, p.FormatCoordinates(), p.ID)
	}
	return fmt.Sprintf("Found Locations (%d)\n%s\n", len(places), t.String())
}

// page shows content in ov. The pager takes over the terminal until it exits.
func page(content string) error {
	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
