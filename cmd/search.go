package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/store"
	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	searchContent    bool
	searchLimit      int
	searchIgnoreCase bool
)

func init() {
	searchCmd.Flags().BoolVar(&searchContent, "content", false, "also search decrypted content with pass grep")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of name matches (default search.max_results)")
	searchCmd.Flags().BoolVarP(&searchIgnoreCase, "ignore-case", "i", false, "case-insensitive content search")
}

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Aliases: []string{"find"},
	Short:   "Fuzzy-search entry names and optionally their content",
	Long: `Matches entry paths against the query, best matches first. Characters
only need to appear in order, so "ewk" finds "email/work".

With --content, every entry is also decrypted and searched with pass grep,
which can take a while on large stores.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	ctx, cancel := commandContext()
	defer cancel()

	var result *workflows.SearchResult
	err := withSpinner("Searching...", func() (err error) {
		result, err = workflows.Search(ctx, App, workflows.SearchOptions{
			Query:      query,
			Limit:      searchLimit,
			Content:    searchContent,
			IgnoreCase: searchIgnoreCase,
		})
		return err
	})
	if err != nil {
		return err
	}

	if len(result.Names) == 0 && len(result.Content) == 0 {
		fmt.Println(ui.Info.Sprint("ℹ") + " No matches for " + ui.Highlight.Sprint(query))
		return nil
	}

	for _, m := range result.Names {
		fmt.Println(highlightMatch(m))
	}
	if len(result.Content) > 0 {
		if len(result.Names) > 0 {
			fmt.Println()
		}
		fmt.Println("Content matches:")
		for _, m := range result.Content {
			fmt.Println(ui.Path.Sprint(m.Path))
			for _, line := range m.Lines {
				fmt.Println("  " + line)
			}
		}
	}
	return nil
}

// highlightMatch marks the matched characters of a fuzzy match.
func highlightMatch(m store.SearchMatch) string {
	if len(m.MatchedIndexes) == 0 {
		return m.Path
	}
	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		matched[i] = true
	}
	var b strings.Builder
	for i, r := range m.Path {
		if matched[i] {
			b.WriteString(ui.Info.Sprint(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
