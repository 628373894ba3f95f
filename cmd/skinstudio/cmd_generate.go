package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skinstudio/internal/engine"
	"github.com/battlewithbytes/skinstudio/internal/progress"
	"github.com/battlewithbytes/skinstudio/internal/project"
	"github.com/battlewithbytes/skinstudio/internal/ui"
)

const barWidth = 30

var (
	generateModsPath string
	generateListen   string
	generateQuiet    bool
)

func init() {
	generateCmd.Flags().StringVar(&generateModsPath, "mods-path", "", "write the archive here instead of the configured mods folder")
	generateCmd.Flags().StringVar(&generateListen, "listen", "", "serve progress events over websocket on this address (e.g. 127.0.0.1:8765)")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "only print the result")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <project" + project.Extension + ">",
	Short: "Build the mod archive for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		p, err := project.Load(args[0])
		if err != nil {
			return err
		}

		eng, err := env.engine(generateModsPath)
		if err != nil {
			return err
		}
		defer eng.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		req := engine.Request{Project: p, ProjectPath: absPath(args[0])}

		listen := generateListen
		if listen == "" {
			listen = env.cfg.Generate.Listen
		}
		var hub *progress.Hub
		if listen != "" {
			hub = progress.NewHub(env.log)
			srv := &http.Server{Addr: listen, Handler: eventsMux(hub)}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					env.log.Error().Err(err).Str("addr", listen).Msg("progress feed stopped")
				}
			}()
			defer func() {
				hub.Close()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			fmt.Fprintln(os.Stderr, ui.Dim.Render("Progress feed: ws://"+listen+"/events"))
			req.Sink = hub
		}

		job, events, err := eng.Start(ctx, req)
		if err != nil {
			return err
		}
		renderEvents(events, generateQuiet)

		done, err := eng.GetJob(job.ID)
		if err != nil {
			return fmt.Errorf("reading job: %w", err)
		}
		if done.State != engine.StateCompleted {
			return errors.New(done.Error)
		}

		fmt.Println(ui.Green.Render("Mod created: ") + ui.White.Render(done.ZipPath))
		fmt.Println(ui.Dim.Render(fmt.Sprintf("  %s, %d entries, %d car(s), %d skin(s)",
			humanize.Bytes(uint64(done.Size)), done.Entries, done.Cars, done.Skins)))
		if done.Warnings > 0 {
			fmt.Println(ui.Yellow.Render(fmt.Sprintf("  %d warning(s)", done.Warnings)))
		}
		fmt.Println(ui.Dim.Render("  blake2b-256 " + done.Digest))
		return nil
	},
}

func eventsMux(hub *progress.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/events", hub)
	return mux
}

// renderEvents drains the job's events, drawing a progress bar on stderr
// and printing warnings above it.
func renderEvents(events <-chan progress.Event, quiet bool) {
	var status string
	draw := func(fraction float64) {
		if quiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r%s %-20s", ui.Bar(fraction, barWidth), status)
	}
	for e := range events {
		switch e.Kind {
		case progress.KindStatus:
			status = e.Message
			draw(e.Fraction)
		case progress.KindProgress:
			draw(e.Fraction)
		case progress.KindWarning:
			if !quiet {
				fmt.Fprintf(os.Stderr, "\r\033[K")
			}
			fmt.Fprintln(os.Stderr, ui.Yellow.Render("warning: ")+e.Message)
			draw(e.Fraction)
		case progress.KindDone, progress.KindFailed:
			status = string(e.Kind)
			draw(e.Fraction)
			if !quiet {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
}
