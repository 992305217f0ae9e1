package main

import (
	"github.com/crucial707/changelog-browser/cmd/cli/browse"
	"github.com/crucial707/changelog-browser/cmd/cli/changes"
	"github.com/crucial707/changelog-browser/cmd/cli/countries"
	"github.com/crucial707/changelog-browser/cmd/cli/export"
	"github.com/crucial707/changelog-browser/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	countries.InitCountries(rootCmd)
	changes.InitChanges(rootCmd)
	export.InitExport(rootCmd)
	browse.InitBrowse(rootCmd)

	// Execute the root Cobra command
	root.Execute()
}
