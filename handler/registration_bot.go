package handler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"FunnelBot/config"
	"FunnelBot/form"
	"FunnelBot/model"
)

// Sender is the part of *bot.Bot the handler uses.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// IdentityVerifier checks a sign-in token with the identity provider.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, idToken string) (model.Identity, error)
}

// Scheduler runs f after d and returns a function that cancels it.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// chat is the registration in progress for one Telegram user.
type chat struct {
	mu     sync.Mutex
	state  model.UserState
	ctrl   *form.Controller
	chatID int64
	stop   func() bool
}

type RegistrationBotHandler struct {
	catalogue *model.Catalogue
	submitter form.Submitter
	progress  []form.ProgressSaver
	verifier  IdentityVerifier
	cfg       config.Config
	logger    zerolog.Logger
	now       func() time.Time
	schedule  Scheduler

	mu    sync.Mutex
	chats map[int64]*chat
}

// Option customises a RegistrationBotHandler.
type Option func(*RegistrationBotHandler)

// WithProgress adds best-effort step savers.
func WithProgress(savers ...form.ProgressSaver) Option {
	return func(h *RegistrationBotHandler) { h.progress = append(h.progress, savers...) }
}

// WithIdentityVerifier enables /signin.
func WithIdentityVerifier(v IdentityVerifier) Option {
	return func(h *RegistrationBotHandler) { h.verifier = v }
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *RegistrationBotHandler) { h.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(h *RegistrationBotHandler) { h.now = now }
}

func WithScheduler(s Scheduler) Option {
	return func(h *RegistrationBotHandler) { h.schedule = s }
}

func NewRegistrationBotHandler(catalogue *model.Catalogue, submitter form.Submitter, cfg config.Config, opts ...Option) *RegistrationBotHandler {
	h := &RegistrationBotHandler{
		catalogue: catalogue,
		submitter: submitter,
		cfg:       cfg,
		logger:    zerolog.Nop(),
		now:       time.Now,
		schedule:  afterFunc,
		chats:     make(map[int64]*chat),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handler is registered as the bot's default handler.
func (h *RegistrationBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.Handle(ctx, b, update)
}

// Handle routes one update.
func (h *RegistrationBotHandler) Handle(ctx context.Context, s Sender, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, s, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		h.handleMessage(ctx, s, update.Message)
	}
}

// lockChat returns the user's chat, locked, creating it on first contact.
func (h *RegistrationBotHandler) lockChat(userID, chatID int64) *chat {
	h.mu.Lock()
	c, ok := h.chats[userID]
	if !ok {
		c = &chat{state: model.UserState{State: model.StateIdle}}
		h.chats[userID] = c
	}
	h.mu.Unlock()

	c.mu.Lock()
	c.chatID = chatID
	return c
}

func (h *RegistrationBotHandler) handleMessage(ctx context.Context, s Sender, msg *models.Message) {
	userID := msg.From.ID
	c := h.lockChat(userID, msg.Chat.ID)
	defer c.mu.Unlock()

	log := h.logger.With().Int64("user_id", userID).Logger()
	log.Debug().Str("text", msg.Text).Msg("message received")

	cmd, arg := splitCommand(msg.Text)
	switch cmd {
	case "/start", "/register":
		h.sendPersonaPicker(ctx, s, c, "Hi! I'm the registration assistant. Who are you registering as?")
	case "/help":
		h.send(ctx, s, c.chatID, helpText, nil)
	case "/signin":
		h.signIn(ctx, s, c, arg)
	case "/cancel":
		h.discard(c)
		h.send(ctx, s, c.chatID, "Registration cancelled. Send /start whenever you want to begin again.", nil)
	case "/status":
		h.sendStatus(ctx, s, c)
	case "/back":
		h.back(ctx, s, c)
	case "/next":
		h.next(ctx, s, c)
	case "/skip":
		h.skip(ctx, s, c)
	case "/done":
		h.done(ctx, s, c)
	case "":
		switch c.state.State {
		case model.StateAwaitingOther:
			h.otherText(ctx, s, c, msg.Text)
		case model.StateAnswering:
			h.answer(ctx, s, c, msg.Text)
		default:
			h.send(ctx, s, c.chatID, "I didn't understand that. Use /start or /help.", nil)
		}
	default:
		h.send(ctx, s, c.chatID, "I didn't understand that command. Use /start or /help.", nil)
	}
}

func (h *RegistrationBotHandler) handleCallback(ctx context.Context, s Sender, q *models.CallbackQuery) {
	if q.Message.Message == nil {
		h.answerCallback(ctx, s, q.ID, "This message is too old, please send /start.")
		return
	}
	c := h.lockChat(q.From.ID, q.Message.Message.Chat.ID)
	defer c.mu.Unlock()

	kind, rest, _ := strings.Cut(q.Data, ":")
	switch kind {
	case "persona":
		h.answerCallback(ctx, s, q.ID, "")
		h.startPersona(ctx, s, c, model.PersonaID(rest))
	case "opt", "done", "bool":
		field, value, _ := strings.Cut(rest, ":")
		def, ok := h.currentField(c)
		if !ok || def.Name != field || c.state.State != model.StateAnswering {
			h.answerCallback(ctx, s, q.ID, "That question is no longer active.")
			return
		}
		h.answerCallback(ctx, s, q.ID, "")
		switch kind {
		case "opt":
			h.chooseOption(ctx, s, c, def, value)
		case "bool":
			c.ctrl.UpdateField(def.Name, model.Bool(value == "1"))
			h.commitField(ctx, s, c, def)
		default:
			h.done(ctx, s, c)
		}
	default:
		h.answerCallback(ctx, s, q.ID, "Unknown action.")
	}
}

func (h *RegistrationBotHandler) signIn(ctx context.Context, s Sender, c *chat, token string) {
	if token == "" {
		h.send(ctx, s, c.chatID, "Sign in with Google on our website, copy the sign-in token and send it here as:\n/signin <token>", nil)
		return
	}
	if h.verifier == nil {
		h.send(ctx, s, c.chatID, "Sign-in is not available right now. Please try again later.", nil)
		return
	}
	identity, err := h.verifier.VerifyIdentity(ctx, token)
	if err != nil {
		h.logger.Warn().Err(err).Int64("chat_id", c.chatID).Msg("error verifying sign-in")
		h.send(ctx, s, c.chatID, "Sign-in failed. Please sign in again and send a fresh token.", nil)
		return
	}
	c.state.Identity = &identity
	name := identity.DisplayName
	if name == "" {
		name = identity.Email
	}
	h.sendPersonaPicker(ctx, s, c, fmt.Sprintf("Signed in as %s. Who are you registering as?", name))
}

func (h *RegistrationBotHandler) startPersona(ctx context.Context, s Sender, c *chat, id model.PersonaID) {
	persona, err := h.catalogue.Get(id)
	if err != nil {
		h.send(ctx, s, c.chatID, "I don't know that registration type. Send /start to pick again.", nil)
		return
	}
	if err := h.checkSignIn(c); err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			h.send(ctx, s, c.chatID, "Your sign-in has expired. Please sign in again with /signin.", nil)
		} else {
			h.send(ctx, s, c.chatID, "Please sign in with Google before registering. Send /signin to see how.", nil)
		}
		return
	}

	opts := form.Options{
		Submitter: h.submitter,
		Identity:  c.state.Identity,
		Observer:  form.LogObserver{Logger: h.logger.With().Int64("chat_id", c.chatID).Logger()},
		Now:       h.now,
	}
	if h.cfg.SaveProgress {
		opts.Progress = h.progress
	}
	ctrl, err := form.NewController(persona, opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("error creating form controller")
		h.send(ctx, s, c.chatID, "Something went wrong. Please try again later.", nil)
		return
	}

	h.discard(c)
	c.ctrl = ctrl
	c.state.Persona = persona.ID
	c.state.State = model.StateAnswering
	c.state.FieldIndex = 0
	h.send(ctx, s, c.chatID, fmt.Sprintf("%s registration. Use /back to return to the previous step and /cancel to stop.", persona.Name), nil)
	h.promptStep(ctx, s, c)
}

// checkSignIn drops an expired identity. Anonymous users pass when sign-in is optional.
func (h *RegistrationBotHandler) checkSignIn(c *chat) error {
	if c.state.Identity != nil && c.state.Identity.Expired(h.now()) {
		c.state.Identity = nil
		return model.ErrTokenExpired
	}
	if h.cfg.RequireSignIn && c.state.Identity == nil {
		return model.ErrNotSignedIn
	}
	return nil
}

// discard drops the current form session, keeping the sign-in.
func (h *RegistrationBotHandler) discard(c *chat) {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.ctrl = nil
	c.state = model.UserState{State: model.StateIdle, Identity: c.state.Identity}
}

func (h *RegistrationBotHandler) currentField(c *chat) (model.FieldDefinition, bool) {
	if c.ctrl == nil {
		return model.FieldDefinition{}, false
	}
	step, ok := c.ctrl.Persona().Step(c.ctrl.Step())
	if !ok || c.state.FieldIndex < 0 || c.state.FieldIndex >= len(step.Fields) {
		return model.FieldDefinition{}, false
	}
	return step.Fields[c.state.FieldIndex], true
}

func (h *RegistrationBotHandler) answer(ctx context.Context, s Sender, c *chat, text string) {
	def, ok := h.currentField(c)
	if !ok {
		h.send(ctx, s, c.chatID, "Send /next to continue.", nil)
		return
	}
	text = strings.TrimSpace(text)

	switch def.Type {
	case model.FieldSelect:
		if opt, ok := matchOption(def.Options, text); ok {
			h.chooseOption(ctx, s, c, def, strconv.Itoa(opt))
			return
		}
		if def.Other != "" {
			_ = c.ctrl.SetOtherText(def.Name, text)
			h.commitField(ctx, s, c, def)
			return
		}
		h.send(ctx, s, c.chatID, "Please choose one of the options.", nil)
		h.prompt(ctx, s, c, def)
		return
	case model.FieldMultiSelect:
		if opt, ok := matchOption(def.Options, text); ok {
			h.chooseOption(ctx, s, c, def, strconv.Itoa(opt))
			return
		}
		if def.Other != "" {
			_ = c.ctrl.SetOtherText(def.Name, text)
			h.prompt(ctx, s, c, def)
			return
		}
		h.send(ctx, s, c.chatID, "Please choose from the options, then press Done.", nil)
		h.prompt(ctx, s, c, def)
		return
	case model.FieldList:
		if c.ctrl.AppendListItem(def.Name, text) {
			h.send(ctx, s, c.chatID, "Added. Send another one or /done when finished.", nil)
		} else {
			h.send(ctx, s, c.chatID, "Already on the list. Send another one or /done when finished.", nil)
		}
		return
	case model.FieldBool:
		switch strings.ToLower(text) {
		case "yes", "y":
			c.ctrl.UpdateField(def.Name, model.Bool(true))
		case "no", "n":
			c.ctrl.UpdateField(def.Name, model.Bool(false))
		default:
			h.prompt(ctx, s, c, def)
			return
		}
	case model.FieldPhone:
		c.ctrl.UpdateField(def.Name, model.Text(form.FormatPhone(text)))
	case model.FieldYear, model.FieldNumber:
		if n, err := strconv.Atoi(text); err == nil {
			c.ctrl.UpdateField(def.Name, model.Number(n))
		} else {
			c.ctrl.UpdateField(def.Name, model.Text(text))
		}
	default:
		c.ctrl.UpdateField(def.Name, model.Text(text))
	}
	h.commitField(ctx, s, c, def)
}

// commitField blurs the field and moves on when it is valid.
func (h *RegistrationBotHandler) commitField(ctx context.Context, s Sender, c *chat, def model.FieldDefinition) {
	if msg := c.ctrl.Blur(def.Name); msg != "" {
		h.send(ctx, s, c.chatID, msg, nil)
		return
	}
	h.advanceField(ctx, s, c)
}

func (h *RegistrationBotHandler) chooseOption(ctx context.Context, s Sender, c *chat, def model.FieldDefinition, raw string) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= len(def.Options) {
		h.prompt(ctx, s, c, def)
		return
	}
	option := def.Options[i]

	if def.Type == model.FieldMultiSelect {
		snap := c.ctrl.Snapshot()
		if custom := snap.OtherText[def.Name]; option == def.Other && custom != "" && slices.Contains(snap.Answers.ListOf(def.Name), custom) {
			c.state.State = model.StateAwaitingOther
			c.state.OtherField = def.Name
			h.send(ctx, s, c.chatID, fmt.Sprintf("Send a new %s to replace %q, or /skip to remove it.", strings.ToLower(def.Label), custom), nil)
			return
		}
		c.ctrl.ToggleArrayField(def.Name, option)
		selected := c.ctrl.Snapshot().Answers.ListOf(def.Name)
		if option == def.Other && slices.Contains(selected, option) {
			c.state.State = model.StateAwaitingOther
			c.state.OtherField = def.Name
			h.send(ctx, s, c.chatID, fmt.Sprintf("Please specify your %s. Send /skip to keep %q.", strings.ToLower(def.Label), def.Other), nil)
			return
		}
		h.prompt(ctx, s, c, def)
		return
	}

	c.ctrl.UpdateField(def.Name, model.Text(option))
	if option == def.Other && def.Other != "" {
		c.state.State = model.StateAwaitingOther
		c.state.OtherField = def.Name
		h.send(ctx, s, c.chatID, fmt.Sprintf("Please specify your %s. Send /skip to keep %q.", strings.ToLower(def.Label), def.Other), nil)
		return
	}
	h.commitField(ctx, s, c, def)
}

func (h *RegistrationBotHandler) otherText(ctx context.Context, s Sender, c *chat, text string) {
	def, ok := c.ctrl.Persona().Field(c.state.OtherField)
	c.state.State = model.StateAnswering
	c.state.OtherField = ""
	if !ok {
		h.promptCurrent(ctx, s, c)
		return
	}
	var err error
	if def.Type == model.FieldMultiSelect && strings.TrimSpace(text) == "" &&
		!slices.Contains(c.ctrl.Snapshot().Answers.ListOf(def.Name), def.Other) {
		// editing an existing entry; skipping removes it
		err = c.ctrl.ClearOtherText(def.Name)
	} else {
		err = c.ctrl.SetOtherText(def.Name, text)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("field", def.Name).Msg("error setting other text")
	}
	if def.Type == model.FieldMultiSelect {
		h.prompt(ctx, s, c, def)
		return
	}
	h.commitField(ctx, s, c, def)
}

func (h *RegistrationBotHandler) advanceField(ctx context.Context, s Sender, c *chat) {
	c.state.FieldIndex++
	step, _ := c.ctrl.Persona().Step(c.ctrl.Step())
	if c.state.FieldIndex < len(step.Fields) {
		h.promptCurrent(ctx, s, c)
		return
	}
	h.next(ctx, s, c)
}

func (h *RegistrationBotHandler) skip(ctx context.Context, s Sender, c *chat) {
	if c.ctrl == nil {
		h.send(ctx, s, c.chatID, "There is nothing to skip. Send /start to register.", nil)
		return
	}
	if c.state.State == model.StateAwaitingOther {
		h.otherText(ctx, s, c, "")
		return
	}
	def, ok := h.currentField(c)
	if !ok {
		return
	}
	if def.Required {
		h.send(ctx, s, c.chatID, fmt.Sprintf("%s is required.", def.Label), nil)
		return
	}
	h.advanceField(ctx, s, c)
}

func (h *RegistrationBotHandler) done(ctx context.Context, s Sender, c *chat) {
	def, ok := h.currentField(c)
	if !ok || !def.Multi() {
		h.send(ctx, s, c.chatID, "Nothing to finish here.", nil)
		return
	}
	h.commitField(ctx, s, c, def)
}

func (h *RegistrationBotHandler) back(ctx context.Context, s Sender, c *chat) {
	if c.ctrl == nil {
		h.send(ctx, s, c.chatID, "Send /start to register.", nil)
		return
	}
	if !c.ctrl.GoPrevious() {
		h.send(ctx, s, c.chatID, "You are already on the first step.", nil)
		return
	}
	c.state.State = model.StateAnswering
	c.state.FieldIndex = 0
	h.promptStep(ctx, s, c)
}

func (h *RegistrationBotHandler) next(ctx context.Context, s Sender, c *chat) {
	if c.ctrl == nil {
		h.send(ctx, s, c.chatID, "Send /start to register.", nil)
		return
	}
	step := c.ctrl.Step()
	switch c.ctrl.GoNext(ctx) {
	case form.OutcomeBlocked:
		h.blocked(ctx, s, c, step)
	case form.OutcomeAdvanced:
		c.state.FieldIndex = 0
		if w := c.ctrl.Snapshot().Warning; w != "" {
			h.send(ctx, s, c.chatID, w, nil)
		}
		h.promptStep(ctx, s, c)
	case form.OutcomeSubmitted:
		h.submitted(ctx, s, c)
	case form.OutcomeBusy:
		h.send(ctx, s, c.chatID, "Your registration is being submitted, please wait.", nil)
	case form.OutcomeCompleted:
		h.send(ctx, s, c.chatID, "You are already registered. Send /start to begin a new registration.", nil)
	}
}

// blocked lists what stops the step and jumps back to the first such field.
func (h *RegistrationBotHandler) blocked(ctx context.Context, s Sender, c *chat, step int) {
	def, _ := c.ctrl.Persona().Step(step)
	errs := c.ctrl.Errors()
	var lines []string
	first := -1
	for i, f := range def.Fields {
		if msg, ok := errs[f.Name]; ok {
			lines = append(lines, "• "+msg)
			if first < 0 {
				first = i
			}
		}
	}
	if len(lines) == 0 {
		for name, msg := range errs {
			lines = append(lines, fmt.Sprintf("• %s (step %d)", msg, c.ctrl.Persona().StepOf(name)))
		}
		slices.Sort(lines)
	}
	if first < 0 {
		first = 0
	}
	c.state.FieldIndex = first
	c.state.State = model.StateAnswering
	h.send(ctx, s, c.chatID, "Please fix the following before continuing:\n"+strings.Join(lines, "\n"), nil)
	h.promptCurrent(ctx, s, c)
}

func (h *RegistrationBotHandler) submitted(ctx context.Context, s Sender, c *chat) {
	state := c.ctrl.State()
	switch state.Phase {
	case model.PhaseSucceeded:
		c.state.State = model.StateSubmitted
		h.send(ctx, s, c.chatID, "🎉 Registration complete! Thank you for joining the community.", nil)
		h.scheduleClose(c)
	case model.PhaseFailed:
		h.send(ctx, s, c.chatID, state.Reason+"\nEdit your answers with /back, or send /next to try again.", nil)
	}
}

func (h *RegistrationBotHandler) scheduleClose(c *chat) {
	ctrl := c.ctrl
	delay := h.cfg.CloseDelay(ctrl.Persona().CloseDelay)
	c.stop = h.schedule(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.ctrl != ctrl {
			return
		}
		c.stop = nil
		h.discard(c)
	})
}

func (h *RegistrationBotHandler) sendStatus(ctx context.Context, s Sender, c *chat) {
	if c.ctrl == nil {
		h.send(ctx, s, c.chatID, "No registration in progress. Send /start to begin.", nil)
		return
	}
	snap := c.ctrl.Snapshot()
	p := c.ctrl.Persona()
	var b strings.Builder
	fmt.Fprintf(&b, "%s registration, step %d of %d.\n", p.Name, snap.CurrentStep, p.TotalSteps())
	for _, step := range p.Steps {
		for _, f := range step.Fields {
			if v, ok := snap.Answers[f.Name]; ok && !v.Blank() {
				fmt.Fprintf(&b, "%s: %s\n", f.Label, v)
			}
		}
	}
	fmt.Fprintf(&b, "Submission: %s", snap.Submission.Phase)
	if snap.Submission.Reason != "" {
		fmt.Fprintf(&b, " (%s)", snap.Submission.Reason)
	}
	h.send(ctx, s, c.chatID, b.String(), nil)
}

func (h *RegistrationBotHandler) sendPersonaPicker(ctx context.Context, s Sender, c *chat, text string) {
	var rows [][]models.InlineKeyboardButton
	for _, p := range h.catalogue.All() {
		rows = append(rows, []models.InlineKeyboardButton{{Text: p.Name, CallbackData: "persona:" + string(p.ID)}})
	}
	h.send(ctx, s, c.chatID, text, &models.InlineKeyboardMarkup{InlineKeyboard: rows})
}

func (h *RegistrationBotHandler) promptStep(ctx context.Context, s Sender, c *chat) {
	p := c.ctrl.Persona()
	n := c.ctrl.Step()
	step, _ := p.Step(n)
	h.send(ctx, s, c.chatID, fmt.Sprintf("Step %d of %d: %s", n, p.TotalSteps(), step.Label), nil)
	h.promptCurrent(ctx, s, c)
}

func (h *RegistrationBotHandler) promptCurrent(ctx context.Context, s Sender, c *chat) {
	if def, ok := h.currentField(c); ok {
		h.prompt(ctx, s, c, def)
	}
}

func (h *RegistrationBotHandler) prompt(ctx context.Context, s Sender, c *chat, def model.FieldDefinition) {
	text := def.Prompt
	if text == "" {
		text = def.Label
	}
	if !def.Required {
		text += "\n(optional, send /skip to leave it empty)"
	}

	var markup *models.InlineKeyboardMarkup
	switch def.Type {
	case model.FieldSelect:
		markup = optionKeyboard(def, nil)
	case model.FieldMultiSelect:
		selected := c.ctrl.Snapshot().Answers.ListOf(def.Name)
		markup = optionKeyboard(def, selected)
		if len(selected) > 0 {
			text += "\nSelected: " + strings.Join(selected, ", ")
		}
	case model.FieldBool:
		markup = &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Yes", CallbackData: "bool:" + def.Name + ":1"},
			{Text: "No", CallbackData: "bool:" + def.Name + ":0"},
		}}}
	case model.FieldList:
		if items := c.ctrl.Snapshot().Answers.ListOf(def.Name); len(items) > 0 {
			text += "\nSo far: " + strings.Join(items, ", ")
		}
		text += "\nSend /done when finished."
	}
	h.send(ctx, s, c.chatID, text, markup)
}

func optionKeyboard(def model.FieldDefinition, selected []string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for i, opt := range def.Options {
		label := opt
		if slices.Contains(selected, opt) {
			label = "✅ " + opt
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         label,
			CallbackData: fmt.Sprintf("opt:%s:%d", def.Name, i),
		}})
	}
	if def.Type == model.FieldMultiSelect {
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Done", CallbackData: "done:" + def.Name}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (h *RegistrationBotHandler) send(ctx context.Context, s Sender, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := s.SendMessage(ctx, params); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("error sending message")
	}
}

func (h *RegistrationBotHandler) answerCallback(ctx context.Context, s Sender, id, text string) {
	if _, err := s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: id, Text: text}); err != nil {
		h.logger.Error().Err(err).Msg("error answering callback")
	}
}

// splitCommand returns the command ("" for plain text) and its argument.
// "/signin@FunnelBot abc" yields "/signin", "abc".
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, arg, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func matchOption(options []string, text string) (int, bool) {
	for i, opt := range options {
		if strings.EqualFold(opt, text) {
			return i, true
		}
	}
	return 0, false
}

const helpText = `Commands:
/start – Choose what you are registering as.
/signin <token> – Sign in with your Google account token.
/next – Continue to the next step.
/back – Return to the previous step.
/skip – Leave an optional answer empty.
/done – Finish a multiple-choice or list answer.
/status – Show your answers so far.
/cancel – Stop the registration.
/help – Show this message.`
