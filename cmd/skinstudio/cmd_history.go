package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skinstudio/internal/engine"
	"github.com/battlewithbytes/skinstudio/internal/ui"
)

var historyLimit int

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of jobs to show (0 for all)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past generations",
}

func openHistory() (*engine.Engine, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, err
	}
	return env.engine("")
}

func stateStyle(state string) string {
	switch state {
	case engine.StateCompleted:
		return ui.Green.Render(state)
	case engine.StateFailed:
		return ui.Red.Render(state)
	default:
		return ui.Yellow.Render(state)
	}
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openHistory()
		if err != nil {
			return err
		}
		defer eng.Close()

		jobs, err := eng.ListJobs(historyLimit)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println(ui.Dim.Render("No generations yet."))
			return nil
		}
		for _, j := range jobs {
			fmt.Printf("%s  %-24s %s  %s\n",
				ui.Dim.Render(j.ID[:8]),
				ui.White.Render(j.ModName),
				stateStyle(j.State),
				ui.Dim.Render(humanize.Time(j.CreatedAt)))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <job id>",
	Short: "Show a generation and its log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openHistory()
		if err != nil {
			return err
		}
		defer eng.Close()

		job, err := findJob(eng, args[0])
		if err != nil {
			return err
		}

		fmt.Println(ui.Cyan.Render("Job:      ") + ui.White.Render(job.ID))
		fmt.Println(ui.Cyan.Render("Mod:      ") + ui.White.Render(job.ModName))
		fmt.Println(ui.Cyan.Render("State:    ") + stateStyle(job.State))
		if job.ProjectPath != "" {
			fmt.Println(ui.Cyan.Render("Project:  ") + ui.White.Render(job.ProjectPath))
		}
		fmt.Println(ui.Cyan.Render("Started:  ") + ui.White.Render(job.CreatedAt.Format(time.RFC1123)))
		if job.CompletedAt != nil {
			fmt.Println(ui.Cyan.Render("Took:     ") + ui.White.Render(job.CompletedAt.Sub(job.CreatedAt).Round(time.Millisecond).String()))
		}
		fmt.Println(ui.Cyan.Render("Contents: ") + ui.White.Render(fmt.Sprintf("%d car(s), %d skin(s)", job.Cars, job.Skins)))
		if job.ZipPath != "" {
			fmt.Println(ui.Cyan.Render("Archive:  ") + ui.White.Render(job.ZipPath) +
				ui.Dim.Render(fmt.Sprintf(" (%s, %d entries)", humanize.Bytes(uint64(job.Size)), job.Entries)))
			fmt.Println(ui.Cyan.Render("Digest:   ") + ui.Dim.Render(job.Digest))
		}
		if job.Error != "" {
			fmt.Println(ui.Cyan.Render("Error:    ") + ui.Red.Render(job.Error))
		}

		logs, err := eng.GetLogs(job.ID)
		if err != nil {
			return err
		}
		if len(logs) > 0 {
			fmt.Println()
			for _, l := range logs {
				line := l.Timestamp.Format("15:04:05.000") + " " + l.Message
				switch l.Level {
				case "warn":
					fmt.Println(ui.Yellow.Render(line))
				case "error":
					fmt.Println(ui.Red.Render(line))
				default:
					fmt.Println(ui.Dim.Render(line))
				}
			}
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <job id>",
	Short: "Delete a generation from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openHistory()
		if err != nil {
			return err
		}
		defer eng.Close()

		job, err := findJob(eng, args[0])
		if err != nil {
			return err
		}
		if err := eng.DeleteJob(job.ID); err != nil {
			return err
		}
		fmt.Println(ui.Green.Render("Deleted job ") + ui.White.Render(job.ID))
		return nil
	},
}

// findJob resolves a full job id or a unique prefix of one.
func findJob(eng *engine.Engine, id string) (*engine.Job, error) {
	job, err := eng.GetJob(id)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	jobs, err := eng.ListJobs(0)
	if err != nil {
		return nil, err
	}
	var match *engine.Job
	for _, j := range jobs {
		if len(j.ID) >= len(id) && j.ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("job id %q is ambiguous", id)
			}
			match = j
		}
	}
	if match == nil {
		return nil, fmt.Errorf("job %q not found", id)
	}
	return match, nil
}
