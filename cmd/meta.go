package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/workflows"
)

var (
	metaColor        string
	metaIcon         string
	metaFavicon      string
	metaClearFavicon bool
)

func init() {
	for _, c := range []*cobra.Command{metaFolderCmd, metaPasswordCmd} {
		c.Flags().StringVar(&metaColor, "color", "", "colour as #rrggbb")
		c.Flags().StringVar(&metaIcon, "icon", "", "icon name")
	}
	metaPasswordCmd.Flags().StringVar(&metaFavicon, "favicon", "", "PNG file to use as the favicon")
	metaPasswordCmd.Flags().BoolVar(&metaClearFavicon, "clear-favicon", false, "remove the stored favicon")
	metaPasswordCmd.MarkFlagsMutuallyExclusive("favicon", "clear-favicon")

	metaCmd.AddCommand(metaFolderCmd)
	metaCmd.AddCommand(metaPasswordCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show or change colours, icons and favicons",
	Long: `Manages the display metadata kept next to the store in
.secrets_metadata.json. Without flags the current values are shown.`,
}

var metaFolderCmd = &cobra.Command{
	Use:   "folder <path>",
	Short: "Show or change a folder's colour and icon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		path := args[0]
		if metaColor != "" || metaIcon != "" {
			err := workflows.SetFolderMeta(ctx, App, workflows.FolderMetaOptions{Path: path, Color: metaColor, Icon: metaIcon})
			if err != nil {
				fmt.Println(failure(err))
				return shown(err)
			}
			fmt.Println(success("Updated folder %s", ui.Path.Sprint(path)))
		}

		m := App.Metadata.GetFolderMetadata(path)
		fmt.Printf("Color: %s\nIcon:  %s\n", ui.Swatch(m.Color), m.Icon)
		return nil
	},
}

var metaPasswordCmd = &cobra.Command{
	Use:   "password <path>",
	Short: "Show or change an entry's colour, icon and favicon",
	Long: `Shows or changes the colour, icon and favicon of an entry.

Favicons are not downloaded; pass an existing PNG file with --favicon.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		path := args[0]
		changed := false
		if metaColor != "" || metaIcon != "" {
			err := workflows.SetPasswordMeta(ctx, App, workflows.PasswordMetaOptions{Path: path, Color: metaColor, Icon: metaIcon})
			if err != nil {
				fmt.Println(failure(err))
				return shown(err)
			}
			changed = true
		}

		if metaFavicon != "" || metaClearFavicon {
			opts := workflows.FaviconOptions{Path: path}
			if metaFavicon != "" {
				data, err := os.ReadFile(metaFavicon)
				if err != nil {
					fmt.Println(failure(err))
					return shown(err)
				}
				opts.Image = data
			}
			if err := workflows.SetFavicon(ctx, App, opts); err != nil {
				fmt.Println(failure(err))
				return shown(err)
			}
			changed = true
		}

		if changed {
			fmt.Println(success("Updated %s", ui.Path.Sprint(path)))
		}

		m := App.Metadata.GetPasswordMetadata(path)
		favicon := "none"
		if m.FaviconData != nil {
			favicon = fmt.Sprintf("%d bytes (base64)", len(*m.FaviconData))
		}
		fmt.Printf("Color:   %s\nIcon:    %s\nFavicon: %s\n", ui.Swatch(m.Color), m.Icon, favicon)
		return nil
	},
}
