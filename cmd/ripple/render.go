package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomsbg/ripple/pkg/ripple"
)

func renderCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template once to stdout",
		Long: `Render a template with the given data and print the markup.

Examples:
  ripple render index.html
  ripple render index.html --data=data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0], dataPath)
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "Path to a JSON file with the view's data")

	return cmd
}

func runRender(templatePath, dataPath string) error {
	markup, err := os.ReadFile(templatePath)
	if err != nil {
		return err
	}
	family, err := ripple.New(string(markup))
	if err != nil {
		return err
	}

	var data map[string]any
	if dataPath != "" {
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}
	}

	v, err := family.Create(data)
	if err != nil {
		return err
	}
	defer v.Destroy()

	fmt.Println(v.El().OuterHTML())
	return nil
}
