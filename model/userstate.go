package model

// Chat states of the registration bot
const (
	StateIdle = iota
	StateAnswering
	StateAwaitingOther // waiting for the free text behind an "Other" option
	StateSubmitted
)

// UserState is the per-chat conversation position.
type UserState struct {
	State    int
	Identity *Identity
	Persona  PersonaID
	// FieldIndex points at the prompted field within the current step.
	FieldIndex int
	// OtherField is the field whose free text is expected in StateAwaitingOther.
	OtherField string
}
