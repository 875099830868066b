package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"FunnelBot/model"
)

var progressPersona string

// progressCmd prints the steps a user saved to the Firebase mirror
var progressCmd = &cobra.Command{
	Use:   "progress [user-id]",
	Short: "Show the saved step progress of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.FirebaseEnabled() || cfg.FirebaseDatabaseURL == "" {
			return fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_KEY_PATH and FIREBASE_DATABASE_URL must be set")
		}
		catalogue, err := model.LoadCatalogue()
		if err != nil {
			return err
		}
		persona, err := catalogue.Get(model.PersonaID(progressPersona))
		if err != nil {
			return err
		}
		fc, err := InitializeFirebase(cmd.Context())
		if err != nil {
			return err
		}

		steps, err := fc.ReadProgress(cmd.Context(), persona.ID, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(steps) == 0 {
			fmt.Fprintf(out, "no progress saved for %s\n", args[0])
			return nil
		}
		for _, step := range persona.Steps {
			data, ok := steps[step.Key]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%s:\n", step.Label)
			names := make([]string, 0, len(data))
			for name := range data {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %s: %s\n", name, data[name])
			}
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressPersona, "persona", "", "persona the user registered as")
	_ = progressCmd.MarkFlagRequired("persona")
}
