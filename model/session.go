package model

import "maps"

// Phase is the lifecycle position of a submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SubmissionState carries the failure reason when Phase is PhaseFailed.
type SubmissionState struct {
	Phase  Phase
	Reason string
}

// FormSession is the state of one registration attempt.
type FormSession struct {
	Answers     Answers
	CurrentStep int
	FieldErrors map[string]string
	Submission  SubmissionState
	// OtherText remembers the free text last used for a field's "Other" escape.
	OtherText map[string]string
	// Warning holds the last non-fatal problem, e.g. a failed progress save.
	Warning string
	Receipt *Receipt
}

// NewFormSession returns an empty session positioned on the first step.
func NewFormSession() *FormSession {
	return &FormSession{
		Answers:     Answers{},
		CurrentStep: 1,
		FieldErrors: map[string]string{},
		OtherText:   map[string]string{},
	}
}

// HasErrors reports whether any field currently carries a message.
func (s *FormSession) HasErrors() bool {
	for _, msg := range s.FieldErrors {
		if msg != "" {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of a lock.
func (s *FormSession) Clone() FormSession {
	out := *s
	out.Answers = s.Answers.Clone()
	out.FieldErrors = maps.Clone(s.FieldErrors)
	out.OtherText = maps.Clone(s.OtherText)
	if s.Receipt != nil {
		r := *s.Receipt
		r.Body = maps.Clone(s.Receipt.Body)
		out.Receipt = &r
	}
	return out
}
