package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"FunnelBot/form"
	"FunnelBot/model"
	"FunnelBot/repo"
)

var (
	submitPersona string
	answersPath   string
	idToken       string
)

// submitCmd replays an answer file through the form and submits it
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Run a registration from a JSON answer file",
	Long: `Fills every step of a persona's form from a JSON object of answers,
validating each step as the bot would, and submits the result.

Example:
  funnelbot submit --persona mentor --answers mentor.json --token $ID_TOKEN`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitPersona, "persona", "", "persona to register as")
	submitCmd.Flags().StringVar(&answersPath, "answers", "", "path to a JSON file of answers")
	submitCmd.Flags().StringVar(&idToken, "token", "", "ID token sent as the bearer credential")
	_ = submitCmd.MarkFlagRequired("persona")
	_ = submitCmd.MarkFlagRequired("answers")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	catalogue, err := model.LoadCatalogue()
	if err != nil {
		return err
	}
	persona, err := catalogue.Get(model.PersonaID(submitPersona))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(answersPath)
	if err != nil {
		return fmt.Errorf("error reading answers: %w", err)
	}
	var answers model.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return fmt.Errorf("error parsing answers: %w", err)
	}

	opts := form.Options{
		Submitter: repo.NewBackendClient(cfg.APIURL, cfg.HTTPTimeout),
		Observer:  form.LogObserver{Logger: log.Logger},
	}
	if idToken != "" {
		identity, err := repo.IdentityFromToken(idToken)
		if err != nil {
			return err
		}
		opts.Identity = &identity
	}
	ctrl, err := form.NewController(persona, opts)
	if err != nil {
		return err
	}
	for name, v := range answers {
		if _, ok := persona.Field(name); !ok {
			log.Warn().Str("field", name).Msg("ignoring unknown field")
			continue
		}
		ctrl.UpdateField(name, v)
	}

	out := cmd.OutOrStdout()
	for {
		step := ctrl.Step()
		switch ctrl.GoNext(cmd.Context()) {
		case form.OutcomeAdvanced:
			fmt.Fprintf(out, "step %d of %d ok\n", step, ctrl.TotalSteps())
			if w := ctrl.Snapshot().Warning; w != "" {
				fmt.Fprintln(out, w)
			}
			continue
		case form.OutcomeBlocked:
			errs := ctrl.Errors()
			names := make([]string, 0, len(errs))
			for name := range errs {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(out, "step %d of %d blocked:\n", step, ctrl.TotalSteps())
			for _, name := range names {
				fmt.Fprintf(out, "  %s: %s\n", name, errs[name])
			}
			return fmt.Errorf("registration incomplete")
		case form.OutcomeBusy:
			return fmt.Errorf("submission already running")
		}

		state := ctrl.State()
		if state.Phase != model.PhaseSucceeded {
			return fmt.Errorf("submission failed: %s", state.Reason)
		}
		receipt := ctrl.Snapshot().Receipt
		fmt.Fprintf(out, "registered %s as %s (HTTP %d)\n", receipt.UserID, persona.Name, receipt.Status)
		return nil
	}
}
