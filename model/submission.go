package model

import "time"

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	AvatarURL   string
	ProviderID  string
	// Token is the bearer token for authenticated backend calls.
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry. A zero expiry never expires.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Submission is everything the backend adapter needs for one registration call.
type Submission struct {
	Persona *Persona
	Answers Answers
	UserID  string
	Token   string
}

// Receipt is the backend's acknowledgement of a registration.
type Receipt struct {
	Status int
	UserID string
	Body   map[string]any
}

// Progress is one best-effort step save.
type Progress struct {
	Persona *Persona
	UserID  string
	Step    string
	Data    Answers
	Token   string
}
