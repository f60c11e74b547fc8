package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var lsCmd = &cobra.Command{
	Use:     "ls [folder]",
	Aliases: []string{"list"},
	Short:   "List folders and passwords",
	Long: `Lists the folders and passwords of the store as a tree, with their
colours and what is known about each entry from earlier decryptions.

Nothing is decrypted. Run "secrets warm" to fill in the TOTP and URL badges.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	opts := workflows.ListOptions{}
	if len(args) == 1 {
		opts.Folder = strings.Trim(args[0], "/")
	}

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.List(ctx, App, opts)
	if err != nil {
		fmt.Println(failure(err))
		return shown(err)
	}

	if len(result.Folders) == 0 && len(result.Passwords) == 0 {
		fmt.Println(ui.Info.Sprint("ℹ") + " The password store is empty.")
		return nil
	}

	for _, line := range treeLines(result, App.Config.UI.ShowFavicons) {
		fmt.Println(line)
	}
	return nil
}

type treeRow struct {
	path   string
	folder bool
	text   string
}

// treeLines renders folders and passwords sorted by path, indented by depth.
func treeLines(result *workflows.ListResult, showFavicons bool) []string {
	var rows []treeRow
	for _, f := range result.Folders {
		rows = append(rows, treeRow{
			path:   f.Path,
			folder: true,
			text:   ui.Folder.Sprint(baseName(f.Path)) + "  " + ui.Swatch(f.Meta.Color),
		})
	}
	for _, p := range result.Passwords {
		text := baseName(p.Path) + "  " + ui.Swatch(p.Meta.Color)
		var badges []string
		if showFavicons && p.Meta.FaviconData != nil {
			badges = append(badges, "favicon")
		}
		if d := p.Detection; d != nil {
			if d.Username != "" {
				badges = append(badges, d.Username)
			}
			if d.HasURL {
				badges = append(badges, d.URL)
			}
			if d.HasTOTP {
				badges = append(badges, "totp")
			}
		}
		if len(badges) > 0 {
			text += "  " + ui.Muted.Sprint(strings.Join(badges, " · "))
		}
		rows = append(rows, treeRow{path: p.Path, text: text})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].path == rows[j].path {
			return rows[i].folder
		}
		return rows[i].path < rows[j].path
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		depth := strings.Count(r.path, "/")
		lines = append(lines, strings.Repeat("  ", depth)+r.text)
	}
	return lines
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
