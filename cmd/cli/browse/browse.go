package browse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/changelog-browser/cmd/cli/changes"
	"github.com/crucial707/changelog-browser/cmd/cli/root"
	changelogbrowse "github.com/crucial707/changelog-browser/internal/browse"
	"github.com/crucial707/changelog-browser/internal/filter"
	"github.com/crucial707/changelog-browser/internal/models"
)

// InitBrowse registers the browse command.
func InitBrowse(rootCmd *cobra.Command) {
	rootCmd.AddCommand(browseCmd())
}

func browseCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "browse <code>",
		Short: "Search a country's changes interactively",
		Long: `Open the changelog of one country and search it as you type.
Every input line replaces the search term; results are printed once typing
pauses for the debounce interval. Lines starting with ":" are commands:

  :action add|update|delete|all   filter by action
  :entity city|state|country|all  filter by entity type
  :open <code>                    switch country
  :quit                           exit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = root.Settings().Debounce
			}
			s := &session{
				b:   changelogbrowse.New(root.Client(), root.Logger()),
				out: cmd.OutOrStdout(),
			}
			return s.run(cmd, args[0], cmd.InOrStdin(), debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before a search runs")
	return cmd
}

// session drives one Browser from line input.
type session struct {
	b *changelogbrowse.Browser

	mu       sync.Mutex
	out      io.Writer
	criteria models.FilterCriteria
}

func (s *session) run(cmd *cobra.Command, code string, in io.Reader, debounce time.Duration) error {
	ctx := cmd.Context()
	s.b.Start(ctx, code)
	if !s.report() {
		return fmt.Errorf("could not open %s", strings.ToUpper(code))
	}
	s.render()

	search := filter.Debounce(debounce, func(term string) {
		s.mu.Lock()
		s.criteria.Term = term
		s.mu.Unlock()
		s.render()
	})
	defer search.Stop()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ":") {
			search.Call(line)
			continue
		}
		// Commands act immediately on the latest term.
		search.Flush()
		fields := strings.Fields(strings.TrimPrefix(line, ":"))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "q":
			return nil
		case "action":
			s.setFilter(func(c *models.FilterCriteria, v string) { c.Action = v }, fields)
		case "entity":
			s.setFilter(func(c *models.FilterCriteria, v string) { c.EntityType = v }, fields)
		case "open":
			if len(fields) < 2 {
				s.println("usage: :open <code>")
				continue
			}
			s.b.SelectCountry(ctx, fields[1])
			s.mu.Lock()
			s.criteria = models.FilterCriteria{}
			s.mu.Unlock()
			if s.report() {
				s.render()
			}
		default:
			s.println("unknown command: " + fields[0])
		}
	}
	search.Flush()
	return scanner.Err()
}

func (s *session) setFilter(set func(*models.FilterCriteria, string), fields []string) {
	v := ""
	if len(fields) > 1 && fields[1] != "all" {
		v = strings.ToLower(fields[1])
	}
	s.mu.Lock()
	set(&s.criteria, v)
	s.mu.Unlock()
	s.render()
}

// report prints pending notifications and returns whether a country is open.
func (s *session) report() bool {
	for _, n := range s.b.DrainNotifications() {
		s.println(n.Text())
	}
	return s.b.Current() != nil
}

func (s *session) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.b.Current()
	if doc == nil {
		return
	}
	visible := s.b.ApplyFilters(s.criteria)
	if s.criteria.Term != "" {
		fmt.Fprintf(s.out, "\nsearch: %q\n", s.criteria.Term)
	}
	_ = changes.Print(s.out, doc, visible, false, false)
}

func (s *session) println(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, msg)
}
