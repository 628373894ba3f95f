package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skinstudio/internal/config"
	"github.com/battlewithbytes/skinstudio/internal/ui"
	"github.com/battlewithbytes/skinstudio/internal/version"
)

var (
	flagConfigPath string
	flagLogLevel   string
	flagNoColor    bool
)

var rootCmd = &cobra.Command{
	Use:           "skinstudio",
	Short:         "Package BeamNG.drive vehicle skins into mod archives",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Long = ui.Accent.Render("skinstudio") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Builds BeamNG.drive skin mods from per-vehicle templates and DDS textures.")

	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable coloured output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Red.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
