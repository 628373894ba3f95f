package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skinstudio/internal/updater"
	"github.com/battlewithbytes/skinstudio/internal/ui"
	"github.com/battlewithbytes/skinstudio/internal/version"
)

func init() {
	rootCmd.AddCommand(checkUpdateCmd)
}

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check whether a newer release is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		if !env.cfg.Update.Enabled {
			fmt.Println(ui.Dim.Render("Update checks are disabled in " + env.cfgPath + "."))
			return nil
		}

		fmt.Printf("Current version: %s\n", version.Version)
		u := updater.New(env.cfg.Update.VersionURL, env.cfg.Update.RepositoryURL)
		status, err := u.Check(context.Background(), version.Version)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		fmt.Printf("Latest version:  %s\n", status.Latest)

		if !status.Available {
			fmt.Println(ui.Green.Render("\nAlready up to date."))
			return nil
		}
		fmt.Println(ui.Accent.Render("\nA new version is available."))
		if status.URL != "" {
			fmt.Println(ui.Dim.Render("Download it from " + status.URL))
		}
		return nil
	},
}
