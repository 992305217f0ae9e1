package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crucial707/changelog-browser/cmd/cli/root"
	changelogexport "github.com/crucial707/changelog-browser/internal/export"
)

// InitExport registers the export command.
func InitExport(rootCmd *cobra.Command) {
	rootCmd.AddCommand(exportCmd())
}

func exportCmd() *cobra.Command {
	var outFile string
	var toStdout bool
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "export <code>",
		Short: "Save the changelog of one country as JSON",
		Long: `Save the raw changelog of one country as indented JSON.
The file is named changelog-{code}.json unless --output is given.

Example:
  changelog-cli export US --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(strings.TrimSpace(args[0]))
			doc, err := root.Client().CountryChangelog(cmd.Context(), code)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := changelogexport.WriteJSON(&buf, doc); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case toStdout:
				_, err = buf.WriteTo(out)
				if err != nil {
					return err
				}
			default:
				path := outFile
				if path == "" {
					path = changelogexport.Filename(doc)
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(out, "Saved %d changes to %s\n", len(doc.Changes), path)
			}

			if copyToClipboard {
				if changelogexport.CopyToClipboard(root.Logger(), buf.String()) {
					fmt.Fprintln(out, "Copied to clipboard")
				} else {
					fmt.Fprintln(out, "Could not copy to clipboard")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "file to write (default changelog-{code}.json)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the JSON to stdout instead of a file")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "also copy the JSON to the clipboard")
	return cmd
}
