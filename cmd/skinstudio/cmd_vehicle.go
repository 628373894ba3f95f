package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skinstudio/internal/forms"
	"github.com/battlewithbytes/skinstudio/internal/material"
	"github.com/battlewithbytes/skinstudio/internal/ui"
	"github.com/battlewithbytes/skinstudio/internal/vehicles"
)

var (
	vehicleAdd   forms.VehicleAnswers
	vehicleForce bool
)

func init() {
	vehicleAddCmd.Flags().StringVar(&vehicleAdd.CarID, "id", "", "car id, e.g. etk800 (prompted when omitted)")
	vehicleAddCmd.Flags().StringVar(&vehicleAdd.Name, "name", "", "display name")
	vehicleAddCmd.Flags().StringVar(&vehicleAdd.MaterialsPath, "materials", "", "donor materials .json file")
	vehicleAddCmd.Flags().StringVar(&vehicleAdd.JBeamPath, "jbeam", "", "donor skin .jbeam file")
	vehicleAddCmd.Flags().StringVar(&vehicleAdd.PreviewPath, "preview", "", "optional preview image (.jpg)")
	vehicleAddCmd.Flags().StringVar(&vehicleAdd.Policy, "policy", "", "skin material selection: largest or first")

	vehicleRemoveCmd.Flags().BoolVarP(&vehicleForce, "yes", "y", false, "don't ask for confirmation")

	vehicleCmd.AddCommand(vehicleAddCmd)
	vehicleCmd.AddCommand(vehicleListCmd)
	vehicleCmd.AddCommand(vehicleRemoveCmd)
	rootCmd.AddCommand(vehicleCmd)
}

var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Manage vehicle templates",
}

var vehicleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a vehicle template from a donor car's files",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}

		answers := vehicleAdd
		if answers.CarID == "" {
			if err := forms.VehicleForm(&answers).Run(); err != nil {
				return err
			}
		}
		policy, err := material.ParsePolicy(answers.Policy)
		if err != nil {
			return err
		}

		res, err := env.lib.Ingest(vehicles.IngestRequest{
			CarID:         strings.TrimSpace(answers.CarID),
			Name:          strings.TrimSpace(answers.Name),
			MaterialsPath: strings.TrimSpace(answers.MaterialsPath),
			JBeamPath:     strings.TrimSpace(answers.JBeamPath),
			PreviewPath:   strings.TrimSpace(answers.PreviewPath),
			Policy:        policy,
		}, env.state.Vehicles)
		if err != nil {
			return err
		}

		fmt.Println(ui.Green.Render("Added vehicle ") + ui.White.Render(answers.CarID))
		m := res.Materials
		if m.Variant == "" {
			fmt.Println(ui.Yellow.Render("  no skin materials found; the template's materials file is empty"))
		} else {
			fmt.Println(ui.Dim.Render(fmt.Sprintf("  kept %d material(s) from variant %q, discarded %d", len(m.Kept), m.Variant, m.Discarded)))
		}
		fmt.Println(ui.Dim.Render("  skin jbeam from " + res.JBeam.Kept))
		if res.Preview != "" {
			fmt.Println(ui.Dim.Render("  preview " + res.Preview))
		}
		fmt.Println(ui.Dim.Render("  template " + env.lib.TemplateDir(answers.CarID)))
		return nil
	},
}

var vehicleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles with a template",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		ids, err := env.lib.List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println(ui.Dim.Render("No vehicles in " + absPath(env.lib.Root) + "."))
			return nil
		}
		for _, id := range ids {
			line := ui.Accent.Render(fmt.Sprintf("%-16s", id))
			if name, ok := env.state.Vehicles.Name(id); ok {
				line += " " + ui.White.Render(name) + ui.Dim.Render("  (added)")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var vehicleRemoveCmd = &cobra.Command{
	Use:   "remove <carid>",
	Short: "Delete a vehicle template and unregister it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		carID := args[0]
		if !vehicleForce {
			confirm := false
			err := huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", env.lib.VehicleDir(carID))).
				Description("The template and any files under it are removed.").
				Value(&confirm).
				Run()
			if err != nil {
				return err
			}
			if !confirm {
				fmt.Println(ui.Dim.Render("Cancelled."))
				return nil
			}
		}
		if err := env.lib.Remove(carID, env.state.Vehicles); err != nil {
			return err
		}
		fmt.Println(ui.Green.Render("Removed vehicle ") + ui.White.Render(carID))
		return nil
	},
}
