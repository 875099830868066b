package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"FunnelBot/model"
)

// ErrorKind classifies a failed submission.
type ErrorKind int

const (
	// KindValidation means the data was refused; the user should edit and resubmit.
	KindValidation ErrorKind = iota
	// KindConnectivity covers transport failures and unexpected responses.
	KindConnectivity
)

// SubmissionError is returned by BackendClient.Submit.
type SubmissionError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user.
func (e *SubmissionError) UserMessage() string { return e.Message }

const connectivityMessage = "Error: Could not connect to server"

// BackendClient talks to the registration REST backend.
type BackendClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewBackendClient creates a client for the API at baseURL.
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Submit posts the persona's record. It performs at most one HTTP call.
func (c *BackendClient) Submit(ctx context.Context, sub model.Submission) (model.Receipt, error) {
	rec, err := BuildRecord(sub)
	if err != nil {
		return model.Receipt{}, &SubmissionError{Kind: KindValidation, Message: "Error: " + err.Error(), Err: err}
	}
	if err := checkRecord(sub.Persona, rec); err != nil {
		return model.Receipt{}, err
	}

	resp, err := c.post(ctx, sub.Persona.Endpoint, sub.Token, rec)
	if err != nil {
		return model.Receipt{}, &SubmissionError{Kind: KindConnectivity, Message: connectivityMessage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Receipt{}, &SubmissionError{Kind: KindConnectivity, Status: resp.StatusCode, Message: connectivityMessage, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		receipt := model.Receipt{Status: resp.StatusCode, UserID: sub.UserID}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &receipt.Body); err != nil {
				// accepted by the backend; keep the receipt
				log.Warn().Err(err).Int("status", resp.StatusCode).Str("persona", string(sub.Persona.ID)).Msg("error unmarshaling registration response")
				receipt.Body = nil
			}
		}
		if id, ok := receipt.Body["user_id"].(string); ok && id != "" {
			receipt.UserID = id
		}
		return receipt, nil
	}

	return model.Receipt{}, decodeFailure(sub.Persona, resp.StatusCode, body)
}

// SaveProgress posts one completed step to the persona's progress endpoint.
// Personas without one are skipped.
func (c *BackendClient) SaveProgress(ctx context.Context, p model.Progress) error {
	if p.Persona == nil || p.Persona.ProgressEndpoint == "" {
		return nil
	}
	payload := struct {
		UserID string        `json:"user_id"`
		Step   string        `json:"step"`
		Data   model.Answers `json:"data"`
	}{p.UserID, p.Step, p.Data}

	resp, err := c.post(ctx, p.Persona.ProgressEndpoint, p.Token, payload)
	if err != nil {
		return fmt.Errorf("error saving progress: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("error saving progress: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *BackendClient) post(ctx context.Context, path, token string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.HTTPClient.Do(req)
}

// validationDetail is one entry of a 422 body: {"loc": [...], "msg": "..."}.
type validationDetail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func decodeFailure(p *model.Persona, status int, body []byte) error {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	_ = json.Unmarshal(body, &envelope)

	var text string
	var details []validationDetail
	if len(envelope.Detail) > 0 {
		if err := json.Unmarshal(envelope.Detail, &details); err != nil {
			details = nil
			_ = json.Unmarshal(envelope.Detail, &text)
		}
	}

	if status == http.StatusUnprocessableEntity {
		msg := "Validation error: "
		switch {
		case len(details) > 0:
			parts := make([]string, 0, len(details))
			for _, d := range details {
				parts = append(parts, fmt.Sprintf("%s: %s", locLabel(p, d.Loc), d.Msg))
			}
			msg += strings.Join(parts, ", ")
		case text != "":
			msg += text
		default:
			msg += "Invalid data format"
		}
		return &SubmissionError{Kind: KindValidation, Status: status, Message: msg}
	}

	if text == "" {
		text = "Something went wrong"
	}
	return &SubmissionError{
		Kind:    KindConnectivity,
		Status:  status,
		Message: "Error: " + text,
		Err:     fmt.Errorf("HTTP %d", status),
	}
}

// locLabel renders a pydantic-style location. The leading "body" segment is
// dropped and the field name is replaced by its form label.
func locLabel(p *model.Persona, loc []any) string {
	var parts []string
	for i, seg := range loc {
		s := fmt.Sprint(seg)
		if i == 0 && s == "body" && len(loc) > 1 {
			continue
		}
		if len(parts) == 0 {
			s = fieldLabel(p, s)
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "Request"
	}
	return strings.Join(parts, ".")
}

// fieldLabel returns the persona's label for a field, or a title-cased name.
func fieldLabel(p *model.Persona, name string) string {
	if p != nil {
		if f, ok := p.Field(name); ok && f.Label != "" {
			return f.Label
		}
	}
	// a Caser keeps state, so one is made per call
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// IsValidation reports whether err is a submission refused for its content.
func IsValidation(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se) && se.Kind == KindValidation
}
