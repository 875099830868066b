package form

import (
	"github.com/rs/zerolog"

	"FunnelBot/model"
)

// Observer receives controller events. Implementations must not block.
type Observer interface {
	StepChanged(persona model.PersonaID, from, to int)
	ProgressFailed(persona model.PersonaID, step string, err error)
	SubmissionStarted(persona model.PersonaID, userID string)
	SubmissionFinished(persona model.PersonaID, state model.SubmissionState)
}

type nopObserver struct{}

func (nopObserver) StepChanged(model.PersonaID, int, int) {}
func (nopObserver) ProgressFailed(model.PersonaID, string, error) {}
func (nopObserver) SubmissionStarted(model.PersonaID, string) {}
func (nopObserver) SubmissionFinished(model.PersonaID, model.SubmissionState) {}

// LogObserver writes controller events to a zerolog logger.
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) StepChanged(persona model.PersonaID, from, to int) {
	o.Logger.Debug().Str("persona", string(persona)).Int("from", from).Int("to", to).Msg("step changed")
}

func (o LogObserver) ProgressFailed(persona model.PersonaID, step string, err error) {
	o.Logger.Warn().Err(err).Str("persona", string(persona)).Str("step", step).Msg("error saving step progress")
}

func (o LogObserver) SubmissionStarted(persona model.PersonaID, userID string) {
	o.Logger.Info().Str("persona", string(persona)).Str("user_id", userID).Msg("submitting registration")
}

func (o LogObserver) SubmissionFinished(persona model.PersonaID, state model.SubmissionState) {
	ev := o.Logger.Info()
	if state.Phase == model.PhaseFailed {
		ev = o.Logger.Warn().Str("reason", state.Reason)
	}
	ev.Str("persona", string(persona)).Stringer("phase", state.Phase).Msg("registration finished")
}
