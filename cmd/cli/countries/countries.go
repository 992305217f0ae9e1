package countries

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/changelog-browser/cmd/cli/output"
	"github.com/crucial707/changelog-browser/cmd/cli/root"
	"github.com/crucial707/changelog-browser/internal/filter"
	"github.com/crucial707/changelog-browser/internal/view"
)

// InitCountries registers the countries command.
func InitCountries(rootCmd *cobra.Command) {
	rootCmd.AddCommand(countriesCmd())
}

func countriesCmd() *cobra.Command {
	var search string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries with changes, most changed first",
		Long: `List every country that has published changes, ordered by total changes.

Example:
  changelog-cli countries --search united`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := root.Client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			all := stats.Summaries(filter.CountryName)
			cards := view.CountryCards(filter.Countries(all, search))

			out := cmd.OutOrStdout()
			if jsonOutput {
				return output.PrintJSON(out, cards)
			}
			if len(cards) == 0 {
				fmt.Fprintln(out, "No countries found")
				return nil
			}
			rows := make([][]interface{}, 0, len(cards))
			for _, c := range cards {
				rows = append(rows, []interface{}{c.Flag, c.Code, c.Name, c.Changes})
			}
			output.RenderTable(out, []string{"", "Code", "Country", "Changes"}, rows,
				fmt.Sprintf("%d of %d countries", len(cards), len(all)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by country name or code")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output JSON instead of a table")
	return cmd
}
