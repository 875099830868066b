package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"FunnelBot/model"
)

// Submitter sends a completed registration to the backend.
type Submitter interface {
	Submit(ctx context.Context, sub model.Submission) (model.Receipt, error)
}

// ProgressSaver persists one completed step. Failures are never fatal.
type ProgressSaver interface {
	SaveProgress(ctx context.Context, p model.Progress) error
}

// Outcome is the result of a GoNext call.
type Outcome int

const (
	OutcomeBlocked Outcome = iota
	OutcomeAdvanced
	OutcomeSubmitted
	// OutcomeBusy means a submission is already running.
	OutcomeBusy
	// OutcomeCompleted means the session was already submitted successfully.
	OutcomeCompleted
)

// Options configures a Controller. Submitter is required.
type Options struct {
	Submitter Submitter
	Progress  []ProgressSaver
	Identity  *model.Identity
	Observer  Observer
	Now       func() time.Time
}

// Controller owns one FormSession and is the only code that mutates it.
type Controller struct {
	persona   *model.Persona
	validator *Validator
	gates     []StepValidator
	submitter Submitter
	progress  []ProgressSaver
	identity  *model.Identity
	observer  Observer
	now       func() time.Time
	userID    string

	mu      sync.Mutex
	session *model.FormSession
}

func NewController(p *model.Persona, opts Options) (*Controller, error) {
	if p == nil {
		return nil, errors.New("persona is required")
	}
	if opts.Submitter == nil {
		return nil, errors.New("submitter is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	c := &Controller{
		persona:   p,
		validator: NewValidator(opts.Now),
		submitter: opts.Submitter,
		progress:  opts.Progress,
		identity:  opts.Identity,
		observer:  opts.Observer,
		now:       opts.Now,
		session:   model.NewFormSession(),
	}
	for _, s := range p.Steps {
		c.gates = append(c.gates, StepValidatorFor(s))
	}
	if opts.Identity != nil && opts.Identity.UID != "" {
		c.userID = opts.Identity.UID
	} else {
		c.userID = uuid.NewString()
	}
	return c, nil
}

func (c *Controller) Persona() *model.Persona { return c.persona }

// UserID is the identity's uid, or an id generated for this session.
func (c *Controller) UserID() string { return c.userID }

func (c *Controller) TotalSteps() int { return c.persona.TotalSteps() }

func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.CurrentStep
}

func (c *Controller) State() model.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Submission
}

// Snapshot returns a copy of the session.
func (c *Controller) Snapshot() model.FormSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

// UpdateField stores a value and clears the field's error. Validation is
// deferred to Blur or the next GoNext.
func (c *Controller) UpdateField(name string, value model.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(name, value)
}

func (c *Controller) set(name string, value model.Value) {
	if value.Kind == model.KindList {
		value = model.List(value.List...)
	}
	c.session.Answers[name] = value
	delete(c.session.FieldErrors, name)
}

// ToggleArrayField removes value from the list when present, else appends it.
func (c *Controller) ToggleArrayField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.session.Answers.ListOf(name)
	if i := slices.Index(list, value); i >= 0 {
		list = slices.Delete(list, i, i+1)
	} else {
		list = append(list, value)
	}
	c.set(name, model.List(list...))
}

// AppendListItem adds a trimmed, non-empty item once.
func (c *Controller) AppendListItem(name, item string) bool {
	item = strings.TrimSpace(item)
	if item == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.session.Answers.ListOf(name)
	if slices.Contains(list, item) {
		return false
	}
	c.set(name, model.List(append(list, item)...))
	return true
}

// SetOtherText fills the free text behind a field's "Other" option. The
// sentinel, or the previous free text, is replaced in place; empty text puts
// the sentinel back.
func (c *Controller) SetOtherText(name, text string) error {
	def, ok := c.persona.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownField, name)
	}
	if def.Other == "" {
		return fmt.Errorf("field %s has no other option", name)
	}
	text = strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	previous := c.session.OtherText[name]
	replacement := text
	if replacement == "" {
		replacement = def.Other
	}

	if def.Type != model.FieldMultiSelect {
		c.set(name, model.Text(replacement))
		c.session.OtherText[name] = text
		return nil
	}

	list := c.session.Answers.ListOf(name)
	idx := slices.Index(list, def.Other)
	if idx < 0 && previous != "" && !slices.Contains(def.Options, previous) {
		idx = slices.Index(list, previous)
	}
	switch {
	case idx >= 0:
		list[idx] = replacement
	default:
		list = append(list, replacement)
	}
	list = dedupe(list)
	c.set(name, model.List(list...))
	c.session.OtherText[name] = text
	return nil
}

// ClearOtherText drops the free text behind a multi-select's "Other" option
// together with the sentinel.
func (c *Controller) ClearOtherText(name string) error {
	def, ok := c.persona.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownField, name)
	}
	if def.Other == "" || def.Type != model.FieldMultiSelect {
		return fmt.Errorf("field %s has no other option", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	custom := c.session.OtherText[name]
	list := slices.DeleteFunc(c.session.Answers.ListOf(name), func(s string) bool {
		return s == def.Other || (custom != "" && s == custom && !slices.Contains(def.Options, s))
	})
	c.set(name, model.List(list...))
	delete(c.session.OtherText, name)
	return nil
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, s := range list {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Blur validates one field and records the result.
func (c *Controller) Blur(name string) string {
	def, ok := c.persona.Field(name)
	if !ok {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.check(def)
}

func (c *Controller) check(def model.FieldDefinition) string {
	v, present := c.session.Answers[def.Name]
	msg := c.validator.Field(def, v, present)
	if msg == "" {
		delete(c.session.FieldErrors, def.Name)
	} else {
		c.session.FieldErrors[def.Name] = msg
	}
	return msg
}

// Errors returns a copy of the current field errors.
func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.session.FieldErrors))
	for k, v := range c.session.FieldErrors {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// CanAdvance reports whether the step's required fields are answered, every
// answered field of the step passes its validator and no field currently
// carries an error. It records nothing.
func (c *Controller) CanAdvance(step int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAdvance(step)
}

func (c *Controller) canAdvance(step int) bool {
	if step < 1 || step > len(c.gates) {
		return false
	}
	if !c.gates[step-1](c.session.Answers) || c.session.HasErrors() {
		return false
	}
	def, _ := c.persona.Step(step)
	for _, f := range def.Fields {
		if v, answered := c.session.Answers[f.Name]; answered && c.validator.Field(f, v, true) != "" {
			return false
		}
	}
	return true
}

// GoNext validates the current step and moves forward, or submits from the
// last step. A blocked step leaves the session where it was.
func (c *Controller) GoNext(ctx context.Context) Outcome {
	c.mu.Lock()
	switch c.session.Submission.Phase {
	case model.PhaseSubmitting:
		c.mu.Unlock()
		return OutcomeBusy
	case model.PhaseSucceeded:
		c.mu.Unlock()
		return OutcomeCompleted
	}
	step := c.session.CurrentStep
	def, _ := c.persona.Step(step)
	for _, f := range def.Fields {
		if _, answered := c.session.Answers[f.Name]; answered || f.Required {
			c.check(f)
		}
	}
	if !c.canAdvance(step) {
		c.mu.Unlock()
		return OutcomeBlocked
	}
	if step == c.persona.TotalSteps() {
		c.mu.Unlock()
		if !c.Submit(ctx) {
			if c.State().Phase == model.PhaseSucceeded {
				return OutcomeCompleted
			}
			return OutcomeBusy
		}
		return OutcomeSubmitted
	}
	key, data := StepData(c.persona, c.session.Answers, step)
	c.session.CurrentStep = step + 1
	c.session.Warning = ""
	c.mu.Unlock()

	c.observer.StepChanged(c.persona.ID, step, step+1)
	c.saveProgress(ctx, key, data)
	return OutcomeAdvanced
}

func (c *Controller) saveProgress(ctx context.Context, key string, data model.Answers) {
	if len(c.progress) == 0 {
		return
	}
	p := model.Progress{Persona: c.persona, UserID: c.userID, Step: key, Data: data, Token: c.token()}
	var errs []error
	for _, saver := range c.progress {
		if err := saver.SaveProgress(ctx, p); err != nil {
			c.observer.ProgressFailed(c.persona.ID, key, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		c.mu.Lock()
		c.session.Warning = fmt.Sprintf("Your progress on %q could not be saved, but you can continue.", key)
		c.mu.Unlock()
	}
}

// GoPrevious steps back without validation. It reports whether the step changed.
func (c *Controller) GoPrevious() bool {
	c.mu.Lock()
	if c.session.CurrentStep <= 1 || c.session.Submission.Phase == model.PhaseSubmitting {
		c.mu.Unlock()
		return false
	}
	from := c.session.CurrentStep
	c.session.CurrentStep--
	c.mu.Unlock()
	c.observer.StepChanged(c.persona.ID, from, from-1)
	return true
}

// Submit sends the full answer record once. It returns false without calling
// the backend while a submission is in flight or after one succeeded.
func (c *Controller) Submit(ctx context.Context) bool {
	c.mu.Lock()
	switch c.session.Submission.Phase {
	case model.PhaseSubmitting, model.PhaseSucceeded:
		c.mu.Unlock()
		return false
	}
	if c.identity != nil && c.identity.Expired(c.now()) {
		c.session.Submission = model.SubmissionState{
			Phase:  model.PhaseFailed,
			Reason: "Your sign-in has expired. Please sign in again and resubmit.",
		}
		state := c.session.Submission
		c.mu.Unlock()
		c.observer.SubmissionFinished(c.persona.ID, state)
		return true
	}
	c.session.Submission = model.SubmissionState{Phase: model.PhaseSubmitting}
	sub := model.Submission{
		Persona: c.persona,
		Answers: c.session.Answers.Clone(),
		UserID:  c.userID,
		Token:   c.token(),
	}
	c.mu.Unlock()

	c.observer.SubmissionStarted(c.persona.ID, c.userID)
	receipt, err := c.submitter.Submit(ctx, sub)

	c.mu.Lock()
	if err != nil {
		c.session.Submission = model.SubmissionState{Phase: model.PhaseFailed, Reason: reason(err)}
	} else {
		c.session.Submission = model.SubmissionState{Phase: model.PhaseSucceeded}
		c.session.Receipt = &receipt
	}
	state := c.session.Submission
	c.mu.Unlock()
	c.observer.SubmissionFinished(c.persona.ID, state)
	return true
}

func (c *Controller) token() string {
	if c.identity == nil {
		return ""
	}
	return c.identity.Token
}

// Reset empties the session. It is refused while a submission is running.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Submission.Phase == model.PhaseSubmitting {
		return false
	}
	c.session = model.NewFormSession()
	return true
}

func reason(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
