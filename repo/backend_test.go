package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FunnelBot/model"
)

func newTestBackend(t *testing.T, h http.HandlerFunc) *BackendClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewBackendClient(srv.URL+"/", 5*time.Second)
}

func TestSubmitSuccess(t *testing.T) {
	var got map[string]any
	var auth, path string
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"user_id":"srv-42","status":"registered"}`))
	})

	receipt, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaMentor),
		Answers: mentorAnswers(),
		UserID:  "uid-1",
		Token:   "id-token",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/mentors/", path)
	assert.Equal(t, "Bearer id-token", auth)
	assert.Equal(t, "uid-1", got["user_id"])
	assert.Equal(t, "Nest Labs", got["organisation"])
	assert.Equal(t, http.StatusCreated, receipt.Status)
	assert.Equal(t, "srv-42", receipt.UserID)
	assert.Equal(t, "registered", receipt.Body["status"])
}

func TestSubmitWithoutTokenOrBody(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	receipt, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaStudent),
		Answers: studentAnswers(),
		UserID:  "anon-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "anon-1", receipt.UserID)
	assert.Nil(t, receipt.Body)
}

func TestSubmitValidationDetailList(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[
			{"loc":["body","email"],"msg":"value is not a valid email address","type":"value_error"},
			{"loc":["body","focus_areas",0],"msg":"invalid choice","type":"value_error"}
		]}`))
	})

	_, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaMentor),
		Answers: mentorAnswers(),
		UserID:  "uid-1",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var se *SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.Equal(t, "Validation error: Email: value is not a valid email address, Focus Areas.0: invalid choice", se.UserMessage())
}

func TestSubmitValidationDetailString(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
	})

	_, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaMentor),
		Answers: mentorAnswers(),
		UserID:  "uid-1",
	})
	var se *SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Validation error: Email already registered", se.UserMessage())
}

func TestSubmitServerError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"Database unavailable"}`, "Error: Database unavailable"},
		{"no detail", `oops`, "Error: Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Submit(context.Background(), model.Submission{
				Persona: persona(t, model.PersonaMentor),
				Answers: mentorAnswers(),
				UserID:  "uid-1",
			})
			var se *SubmissionError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, KindConnectivity, se.Kind)
			assert.Equal(t, tt.want, se.UserMessage())
			assert.False(t, IsValidation(err))
		})
	}
}

func TestSubmitConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewBackendClient(url, time.Second)
	_, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaMentor),
		Answers: mentorAnswers(),
		UserID:  "uid-1",
	})
	var se *SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindConnectivity, se.Kind)
	assert.Equal(t, "Error: Could not connect to server", se.UserMessage())
	assert.NotNil(t, errors.Unwrap(err))
}

func TestSubmitRejectsInvalidRecordLocally(t *testing.T) {
	var calls atomic.Int32
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})

	answers := mentorAnswers()
	answers["phone"] = model.Text("98765")
	_, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaMentor),
		Answers: answers,
		UserID:  "uid-1",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, calls.Load())
}

func TestSaveProgress(t *testing.T) {
	var path, auth string
	var got struct {
		UserID string         `json:"user_id"`
		Step   string         `json:"step"`
		Data   map[string]any `json:"data"`
	}
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	})

	err := client.SaveProgress(context.Background(), model.Progress{
		Persona: persona(t, model.PersonaStudent),
		UserID:  "uid-1",
		Step:    "basic_info",
		Data:    model.Answers{"name": model.Text("Ravi"), "year": model.Number(2026)},
		Token:   "tok",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/students/progress", path)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "uid-1", got.UserID)
	assert.Equal(t, "basic_info", got.Step)
	assert.Equal(t, "Ravi", got.Data["name"])
	assert.Equal(t, float64(2026), got.Data["year"])
}

func TestSaveProgressFailure(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	err := client.SaveProgress(context.Background(), model.Progress{
		Persona: persona(t, model.PersonaStudent),
		UserID:  "uid-1",
		Step:    "basic_info",
	})
	assert.ErrorContains(t, err, "HTTP 502")
}

func TestSaveProgressSkipsPersonasWithoutEndpoint(t *testing.T) {
	var calls atomic.Int32
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	err := client.SaveProgress(context.Background(), model.Progress{
		Persona: persona(t, model.PersonaMentor),
		UserID:  "uid-1",
		Step:    "basic_details",
	})
	assert.NoError(t, err)
	assert.Zero(t, calls.Load())
}

func TestLocLabel(t *testing.T) {
	p := persona(t, model.PersonaStudent)
	assert.Equal(t, "LinkedIn URL", locLabel(p, []any{"body", "linkedin_url"}))
	assert.Equal(t, "Career Goals.1", locLabel(p, []any{"body", "career_goals", float64(1)}))
	assert.Equal(t, "Body", locLabel(p, []any{"body"}))
	assert.Equal(t, "Request", locLabel(p, nil))
	assert.Equal(t, "Referral Code", locLabel(p, []any{"body", "referral_code"}))
}

func TestDecodeFailureWithoutBodyPrefix(t *testing.T) {
	err := decodeFailure(persona(t, model.PersonaStudent), http.StatusUnprocessableEntity,
		[]byte(`{"detail":[{"loc":["email"],"msg":"field required"}]}`))

	var se *SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindValidation, se.Kind)
	assert.Equal(t, "Validation error: Email: field required", se.UserMessage())

	err = decodeFailure(nil, http.StatusUnprocessableEntity, []byte(`not json`))
	assert.Equal(t, "Validation error: Invalid data format", err.Error())
}

func TestSubmitKeepsReceiptWhenBodyIsNotJSON(t *testing.T) {
	var calls atomic.Int32
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`<html>created</html>`))
	})

	receipt, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaMentor),
		Answers: mentorAnswers(),
		UserID:  "uid-1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, receipt.Status)
	assert.Equal(t, "uid-1", receipt.UserID)
	assert.Nil(t, receipt.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubmitNormalizesFormattedPhone(t *testing.T) {
	var got map[string]any
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	answers := studentAnswers()
	answers["phone"] = model.Text("(987) 654-3210")
	_, err := client.Submit(context.Background(), model.Submission{
		Persona: persona(t, model.PersonaStudent),
		Answers: answers,
		UserID:  "uid-1",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(9876543210), got["phone"])
}
