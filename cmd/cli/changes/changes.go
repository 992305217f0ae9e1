package changes

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/changelog-browser/cmd/cli/output"
	"github.com/crucial707/changelog-browser/cmd/cli/root"
	"github.com/crucial707/changelog-browser/internal/client"
	"github.com/crucial707/changelog-browser/internal/filter"
	"github.com/crucial707/changelog-browser/internal/models"
	"github.com/crucial707/changelog-browser/internal/view"
)

const messageWidth = 60

// InitChanges registers the changelog, global, archives and archive commands.
func InitChanges(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		changelogCmd(),
		globalCmd(),
		archivesCmd(),
		archiveCmd(),
	)
}

// filterFlags are shared by every command that prints changes.
type filterFlags struct {
	action  string
	entity  string
	search  string
	fields  []string
	json    bool
	details bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.action, "action", "a", "", "only this action: add|update|delete")
	cmd.Flags().StringVarP(&f.entity, "entity", "e", "", "only this entity type: city|state|country")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "search entity name, message and author")
	cmd.Flags().StringSliceVarP(&f.fields, "field", "f", nil, "restrict --search to these dotted record fields, e.g. entity.name,changes.after.name")
	cmd.Flags().BoolVarP(&f.json, "json", "j", false, "output JSON instead of a table")
	cmd.Flags().BoolVarP(&f.details, "details", "d", false, "print the details block of each change")
}

func (f *filterFlags) criteria() (models.FilterCriteria, error) {
	c := models.FilterCriteria{
		Action:     strings.ToLower(strings.TrimSpace(f.action)),
		EntityType: strings.ToLower(strings.TrimSpace(f.entity)),
		Term:       f.search,
	}
	if c.Action != "" && !models.IsKnownAction(c.Action) {
		return c, fmt.Errorf("invalid --action %q: must be add, update or delete", f.action)
	}
	return c, nil
}

type loader func(ctx context.Context) (*models.ChangelogDocument, error)

// run loads a document, applies the filters and prints it.
func (f *filterFlags) run(cmd *cobra.Command, load loader) error {
	criteria, err := f.criteria()
	if err != nil {
		return err
	}
	doc, err := load(cmd.Context())
	if err != nil {
		return err
	}
	visible := f.apply(doc.Changes, criteria)
	return Print(cmd.OutOrStdout(), doc, visible, f.json, f.details)
}

// apply runs the criteria; with --field the term is matched against those
// record paths instead of the default name, message and author.
func (f *filterFlags) apply(changes []models.ChangeRecord, criteria models.FilterCriteria) []models.ChangeRecord {
	if len(f.fields) == 0 || strings.TrimSpace(criteria.Term) == "" {
		return filter.Apply(changes, criteria)
	}
	term := criteria.Term
	criteria.Term = ""
	return filter.ApplyFields(filter.Apply(changes, criteria), term, f.fields...)
}

// Print writes the header and the visible changes of doc as a table, or as
// JSON view-models.
func Print(out io.Writer, doc *models.ChangelogDocument, visible []models.ChangeRecord, asJSON, details bool) error {
	header := view.CountryHeader(doc)
	cards := view.ChangeCards(visible, time.Now())
	if asJSON {
		return output.PrintJSON(out, map[string]interface{}{
			"header":  header,
			"count":   len(cards),
			"changes": cards,
		})
	}

	fmt.Fprintf(out, "%s\n%s changes\n", header.Title, header.Count)
	if len(cards) == 0 {
		fmt.Fprintln(out, "No changes found")
		return nil
	}
	rows := make([][]interface{}, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []interface{}{
			c.Date, c.Action, c.EntityIcon + " " + c.EntityType, c.EntityName, c.Author, view.Truncate(c.Message, messageWidth),
		})
	}
	output.RenderTable(out, []string{"Date", "Action", "Entity", "Name", "Author", "Message"}, rows,
		fmt.Sprintf("%d of %d changes", len(cards), len(doc.Changes)))

	if details {
		for _, c := range cards {
			if c.Details == nil {
				continue
			}
			fmt.Fprintf(out, "\n%s %s (%s)\n%s\n%s\n", c.Action, c.EntityName, c.ID, c.Details.Label, c.Details.Body)
			if c.Details.Diff != "" {
				fmt.Fprintln(out, c.Details.Diff)
			}
		}
	}
	return nil
}

func changelogCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "changelog <code>",
		Short: "Show the changelog of one country",
		Long: `Show the changes of one country, newest data first as published.

Example:
  changelog-cli changelog US --action update --search boston`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			return f.run(cmd, func(ctx context.Context) (*models.ChangelogDocument, error) {
				return root.Client().CountryChangelog(ctx, code)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func globalCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "global",
		Short: "Show the global changelog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, func(ctx context.Context) (*models.ChangelogDocument, error) {
				return root.Client().GlobalChangelog(ctx)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func archivesCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "archives",
		Short: "List archived years and their countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := root.Client().ArchiveIndex(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return output.PrintJSON(out, ix)
			}
			if len(ix.Years) == 0 {
				fmt.Fprintln(out, "No archives published")
				return nil
			}
			rows := make([][]interface{}, 0, len(ix.Years))
			for _, y := range ix.Years {
				rows = append(rows, []interface{}{y.Year, view.FormatNumber(y.TotalChanges), strings.Join(y.Countries, ", ")})
			}
			output.RenderTable(out, []string{"Year", "Changes", "Countries"}, rows, "")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output JSON instead of a table")
	return cmd
}

func archiveCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "archive <year> <code>",
		Short: "Show the archived changelog of one country for one year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1000 || year > 9999 {
				return fmt.Errorf("invalid year %q", args[0])
			}
			code := strings.ToUpper(strings.TrimSpace(args[1]))
			return f.run(cmd, func(ctx context.Context) (*models.ChangelogDocument, error) {
				c := root.Client()
				doc, err := c.ArchivedChangelog(ctx, year, code)
				if client.IsNotFound(err) {
					if ix, ixErr := c.ArchiveIndex(ctx); ixErr == nil && !ix.Has(year, code) {
						return nil, fmt.Errorf("no %d archive for %s; run \"changelog-cli archives\" to list them", year, code)
					}
				}
				return doc, err
			})
		},
	}
	f.register(cmd)
	return cmd
}
