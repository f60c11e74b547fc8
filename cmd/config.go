package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobagin/secrets/internal/configs"
	"github.com/tobagin/secrets/internal/ui"
	"github.com/tobagin/secrets/internal/utils"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `The configuration lives in config.json below the user config directory.
Missing keys take their defaults; SECRETS_LOG_LEVEL overrides logging.level.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if App.ConfigErr != nil {
			fmt.Println(ui.Warning.Sprint("⚠") + " " + App.ConfigErr.Error() + ", showing defaults")
		}
		data, err := json.MarshalIndent(App.Config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the paths the application uses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := App.Settings
		fmt.Printf("Config:     %s\n", s.ConfigPath)
		fmt.Printf("Store:      %s\n", s.StoreDir)
		fmt.Printf("Metadata:   %s\n", App.Metadata.Path())
		fmt.Printf("Detection:  %s\n", App.Detect.Path())
		fmt.Printf("Audit log:  %s\n", App.Audit.Path())
		fmt.Printf("Log files:  %s\n", s.LogDir)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long:  `Writes the default configuration to config.json unless the file already exists.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := App.Settings.ConfigPath
		if utils.FileExists(path) {
			fmt.Println(ui.Info.Sprint("ℹ") + " Configuration already exists at " + ui.Path.Sprint(path))
			return nil
		}
		if err := configs.Save(path, configs.Default()); err != nil {
			fmt.Println(failure(err))
			return shown(err)
		}
		fmt.Println(success("Wrote default configuration to %s", ui.Path.Sprint(path)))
		return nil
	},
}
