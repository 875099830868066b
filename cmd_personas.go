package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"FunnelBot/model"
)

// personasCmd lists the registration flows
var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the registration personas and their steps",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogue, err := model.LoadCatalogue()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range catalogue.All() {
			fmt.Fprintf(out, "%s (%s) -> %s\n", p.Name, p.ID, p.Endpoint)
			for i, s := range p.Steps {
				fmt.Fprintf(out, "  %d. %s [%s]: %d fields, %d required\n", i+1, s.Label, s.Key, len(s.Fields), len(s.RequiredFields()))
			}
		}
		return nil
	},
}
