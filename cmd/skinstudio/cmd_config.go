package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skinstudio/internal/config"
	"github.com/battlewithbytes/skinstudio/internal/ui"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetModsPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify skinstudio configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		cfg := env.cfg

		fmt.Println(ui.Cyan.Render("Vehicles:  ") + ui.White.Render(absPath(cfg.VehiclesDir)))
		fmt.Println(ui.Cyan.Render("Data:      ") + ui.White.Render(absPath(cfg.DataDir)))
		fmt.Println(ui.Cyan.Render("Mods:      ") + ui.White.Render(cfg.ModsPath))
		fmt.Println(ui.Cyan.Render("Log level: ") + ui.White.Render(cfg.Log.Level))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Updates:"))
		fmt.Println(ui.Dim.Render("  Enabled:   ") + ui.White.Render(fmt.Sprintf("%v", cfg.Update.Enabled)))
		fmt.Println(ui.Dim.Render("  Version:   ") + ui.White.Render(cfg.Update.VersionURL))
		fmt.Println(ui.Dim.Render("  Releases:  ") + ui.White.Render(cfg.Update.RepositoryURL))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("State:"))
		fmt.Println(ui.Dim.Render("  Theme:         ") + ui.White.Render(env.state.Settings.Theme))
		fmt.Println(ui.Dim.Render("  Added cars:    ") + ui.White.Render(fmt.Sprintf("%d", len(env.state.Vehicles.List()))))
		fmt.Println(ui.Dim.Render("  Config types:  ") + ui.White.Render(fmt.Sprintf("%v", env.state.ConfigTypes)))
		fmt.Println()
		if _, err := os.Stat(env.cfgPath); err != nil {
			fmt.Println(ui.Dim.Render("Config file: " + env.cfgPath + " (not created, using defaults)"))
		} else {
			fmt.Println(ui.Dim.Render("Config file: " + env.cfgPath))
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Println(ui.Green.Render("Wrote ") + ui.White.Render(path))
		return nil
	},
}

var configSetModsPathCmd = &cobra.Command{
	Use:   "set-mods-path <dir>",
	Short: "Change the folder mods are written to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return err
		}
		cfg.ModsPath = args[0]
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Println(ui.Green.Render("Mods path set to ") + ui.White.Render(args[0]))
		return nil
	},
}
