package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skinstudio/internal/forms"
	"github.com/battlewithbytes/skinstudio/internal/project"
	"github.com/battlewithbytes/skinstudio/internal/ui"
)

var (
	projectInitName   string
	projectInitAuthor string
	projectInitCar    string
	projectInitSkin   string
	projectInitDDS    string

	projectSkinName       string
	projectSkinDDS        string
	projectSkinConfigType string
	projectSkinConfigName string
	projectSkinPC         string
	projectSkinJPG        string
)

func init() {
	projectInitCmd.Flags().StringVar(&projectInitName, "name", "", "mod name (prompted when omitted)")
	projectInitCmd.Flags().StringVar(&projectInitAuthor, "author", "", "author shown in the skin info")
	projectInitCmd.Flags().StringVar(&projectInitCar, "car", "", "first vehicle to add")
	projectInitCmd.Flags().StringVar(&projectInitSkin, "skin", "", "first skin name for --car")
	projectInitCmd.Flags().StringVar(&projectInitDDS, "dds", "", "texture for --skin")

	projectAddSkinCmd.Flags().StringVar(&projectSkinName, "name", "", "skin name")
	projectAddSkinCmd.Flags().StringVar(&projectSkinDDS, "dds", "", "path to the skin's .dds texture")
	projectAddSkinCmd.Flags().StringVar(&projectSkinConfigType, "config-type", "", "export a vehicle configuration of this type (e.g. Factory, Police)")
	projectAddSkinCmd.Flags().StringVar(&projectSkinConfigName, "config-name", "", "configuration display name (defaults to the skin name)")
	projectAddSkinCmd.Flags().StringVar(&projectSkinPC, "pc", "", "vehicle configuration (.pc) to export")
	projectAddSkinCmd.Flags().StringVar(&projectSkinJPG, "jpg", "", "configuration thumbnail (.jpg)")
	projectAddSkinCmd.MarkFlagRequired("name")
	projectAddSkinCmd.MarkFlagRequired("dds")

	projectCmd.AddCommand(projectInitCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectAddCarCmd)
	projectCmd.AddCommand(projectRemoveCarCmd)
	projectCmd.AddCommand(projectAddSkinCmd)
	projectCmd.AddCommand(projectRemoveSkinCmd)
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create and edit skin pack projects (" + project.Extension + ")",
}

var projectInitCmd = &cobra.Command{
	Use:   "init <file" + project.Extension + ">",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := projectPath(args[0])
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		env, err := loadEnv()
		if err != nil {
			return err
		}

		answers := forms.ProjectAnswers{
			ModName:  projectInitName,
			Author:   projectInitAuthor,
			CarID:    projectInitCar,
			SkinName: projectInitSkin,
			DDSPath:  projectInitDDS,
		}
		if answers.ModName == "" {
			cars, err := env.lib.List()
			if err != nil {
				return err
			}
			if err := forms.ProjectForm(cars, &answers).Run(); err != nil {
				return err
			}
		}
		if err := forms.ValidateModName(answers.ModName); err != nil {
			return err
		}

		p := project.New(strings.TrimSpace(answers.ModName), strings.TrimSpace(answers.Author))
		if answers.CarID != "" {
			if err := env.lib.CheckTemplate(answers.CarID); err != nil {
				return err
			}
			id, err := p.AddCar(answers.CarID)
			if err != nil {
				return err
			}
			if strings.TrimSpace(answers.SkinName) != "" {
				if err := p.AddSkin(id, project.Skin{Name: strings.TrimSpace(answers.SkinName), DDSPath: strings.TrimSpace(answers.DDSPath)}); err != nil {
					return err
				}
			}
		}

		if err := p.Save(path); err != nil {
			return err
		}
		fmt.Println(ui.Green.Render("Created ") + ui.White.Render(path))
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <file" + project.Extension + ">",
	Short: "Display a project's cars and skins",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.Load(projectPath(args[0]))
		if err != nil {
			return err
		}

		fmt.Println(ui.Cyan.Render("Mod:    ") + ui.White.Render(p.ModName))
		fmt.Println(ui.Cyan.Render("Author: ") + ui.White.Render(p.AuthorOrDefault()))
		fmt.Println(ui.Cyan.Render("Skins:  ") + ui.White.Render(fmt.Sprintf("%d across %d car(s)", p.SkinCount(), len(p.Cars))))
		for _, car := range p.Cars {
			fmt.Println()
			label := car.ID
			if car.ID != car.BaseCarID {
				label += ui.Dim.Render(" (" + car.BaseCarID + ")")
			}
			fmt.Println(ui.Accent.Render(label))
			if len(car.Skins) == 0 {
				fmt.Println(ui.Dim.Render("  no skins"))
			}
			for _, s := range car.Skins {
				fmt.Println("  " + ui.White.Render(s.Name) + ui.Dim.Render("  "+s.DDSPath))
				if s.ConfigData != nil {
					fmt.Println(ui.Dim.Render(fmt.Sprintf("    config: %s %q", s.ConfigData.Type(), s.ConfigData.Name(s.Name))))
				}
				if n := len(s.MaterialProperties); n > 0 {
					fmt.Println(ui.Dim.Render(fmt.Sprintf("    material overrides: %d", n)))
				}
			}
		}

		if err := p.Validate(); err != nil {
			fmt.Println()
			fmt.Println(ui.Yellow.Render("Not ready to generate: ") + err.Error())
		}
		return nil
	},
}

var projectAddCarCmd = &cobra.Command{
	Use:   "add-car <file" + project.Extension + "> <carid>",
	Short: "Add a vehicle to the project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		if err := env.lib.CheckTemplate(args[1]); err != nil {
			return err
		}
		return editProject(args[0], func(p *project.Project) (string, error) {
			id, err := p.AddCar(args[1])
			if err != nil {
				return "", err
			}
			return "Added car " + id, nil
		})
	},
}

var projectRemoveCarCmd = &cobra.Command{
	Use:   "remove-car <file" + project.Extension + "> <car>",
	Short: "Remove a car and its skins from the project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(args[0], func(p *project.Project) (string, error) {
			if err := p.RemoveCar(args[1]); err != nil {
				return "", fmt.Errorf("%s: %w", args[1], err)
			}
			return "Removed car " + args[1], nil
		})
	},
}

var projectAddSkinCmd = &cobra.Command{
	Use:   "add-skin <file" + project.Extension + "> <car>",
	Short: "Add a skin to a car in the project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		skin := project.Skin{Name: strings.TrimSpace(projectSkinName), DDSPath: projectSkinDDS}
		if err := forms.ValidateFile(".dds")(skin.DDSPath); err != nil {
			return err
		}

		if projectSkinConfigType != "" || projectSkinPC != "" {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			cd := &project.ConfigData{
				ConfigType:  projectSkinConfigType,
				ConfigName:  projectSkinConfigName,
				PCFilePath:  projectSkinPC,
				JPGFilePath: projectSkinJPG,
			}
			if !env.state.HasConfigType(cd.Type()) {
				return fmt.Errorf("unknown config type %q (known: %s)", cd.Type(), strings.Join(env.state.ConfigTypes, ", "))
			}
			skin.ConfigData = cd
		}

		return editProject(args[0], func(p *project.Project) (string, error) {
			if err := p.AddSkin(args[1], skin); err != nil {
				return "", fmt.Errorf("%s: %w", args[1], err)
			}
			return fmt.Sprintf("Added skin %q to %s", skin.Name, args[1]), nil
		})
	},
}

var projectRemoveSkinCmd = &cobra.Command{
	Use:   "remove-skin <file" + project.Extension + "> <car> <skin name>",
	Short: "Remove a skin from a car",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProject(args[0], func(p *project.Project) (string, error) {
			if err := p.RemoveSkin(args[1], args[2]); err != nil {
				return "", fmt.Errorf("%s: %w", args[1], err)
			}
			return fmt.Sprintf("Removed skin %q from %s", args[2], args[1]), nil
		})
	},
}

// projectPath appends the project extension when missing.
func projectPath(arg string) string {
	if strings.HasSuffix(strings.ToLower(arg), project.Extension) {
		return arg
	}
	return arg + project.Extension
}

// editProject loads a project, applies fn and saves it.
func editProject(arg string, fn func(p *project.Project) (string, error)) error {
	path := projectPath(arg)
	p, err := project.Load(path)
	if err != nil {
		return err
	}
	msg, err := fn(p)
	if err != nil {
		return err
	}
	if err := p.Save(path); err != nil {
		return err
	}
	fmt.Println(ui.Green.Render(msg))
	return nil
}
