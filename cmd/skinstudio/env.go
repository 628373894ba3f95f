package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/battlewithbytes/skinstudio/internal/assembler"
	"github.com/battlewithbytes/skinstudio/internal/config"
	"github.com/battlewithbytes/skinstudio/internal/engine"
	"github.com/battlewithbytes/skinstudio/internal/logging"
	"github.com/battlewithbytes/skinstudio/internal/state"
	"github.com/battlewithbytes/skinstudio/internal/ui"
	"github.com/battlewithbytes/skinstudio/internal/vehicles"
)

// appEnv is everything a command needs, loaded once per invocation.
type appEnv struct {
	cfg     *config.Config
	cfgPath string
	log     zerolog.Logger
	state   *state.AppState
	lib     *vehicles.Library
}

func configPath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return config.DefaultConfigPath()
}

// loadEnv reads the config, sets up logging and terminal styles and loads
// the application state.
func loadEnv() (*appEnv, error) {
	path := configPath()
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	noColor := flagNoColor || termenv.EnvNoColor()
	if noColor {
		ui.DisableColor()
	}
	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	log := logging.New(os.Stderr, level, noColor)

	st, err := state.Load(cfg.DataDir, cfg.VehiclesDir)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(st.Settings.Theme)

	if st.Settings.FirstLaunch {
		fmt.Fprintln(os.Stderr, ui.Accent.Render("Welcome to skinstudio!")+" "+
			ui.Dim.Render("Vehicle templates are read from "+absPath(cfg.VehiclesDir)+
				"; mods are written to "+cfg.ModsPath+"."))
		st.Settings.FirstLaunch = false
		if err := st.Settings.Save(); err != nil {
			log.Warn().Err(err).Msg("saving settings")
		}
	}

	return &appEnv{
		cfg:     cfg,
		cfgPath: path,
		log:     log,
		state:   st,
		lib:     vehicles.NewLibrary(cfg.VehiclesDir, log),
	}, nil
}

// assembler returns an assembler writing to modsPath, or the configured
// mods folder when modsPath is empty.
func (env *appEnv) assembler(modsPath string) *assembler.Assembler {
	if modsPath == "" {
		modsPath = env.cfg.ModsPath
	}
	asm := assembler.New(env.lib, modsPath, env.log)
	asm.WorkDir = env.cfg.Generate.WorkDir
	return asm
}

func (env *appEnv) engine(modsPath string) (*engine.Engine, error) {
	return engine.New(env.assembler(modsPath), env.cfg.DataDir, env.log)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
