package repo

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"FunnelBot/model"
)

// FirebaseConnector struct to hold the Firebase auth client and database reference
type FirebaseConnector struct {
	app    *firebase.App
	auth   *auth.Client
	client *db.Client
}

// NewFirebaseConnector creates a new Firebase connector. An empty databaseURL
// disables the progress mirror but keeps sign-in verification.
func NewFirebaseConnector(ctx context.Context, serviceAccountKeyPath string, databaseURL string) (*FirebaseConnector, error) {
	// Load the service account key file
	opt := option.WithCredentialsFile(serviceAccountKeyPath)

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting auth client: %w", err)
	}

	fc := &FirebaseConnector{app: app, auth: authClient}
	if databaseURL != "" {
		fc.client, err = app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting database client: %w", err)
		}
	}
	return fc, nil
}

// VerifyIdentity checks a Firebase ID token from the Google sign-in and
// returns the user it belongs to.
func (fc *FirebaseConnector) VerifyIdentity(ctx context.Context, idToken string) (model.Identity, error) {
	token, err := fc.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return model.Identity{}, fmt.Errorf("error verifying ID token: %w", err)
	}
	user, err := fc.auth.GetUser(ctx, token.UID)
	if err != nil {
		return model.Identity{}, fmt.Errorf("error reading user %s: %w", token.UID, err)
	}

	id := model.Identity{
		UID:       token.UID,
		Token:     idToken,
		ExpiresAt: time.Unix(token.Expires, 0),
	}
	if user.UserInfo != nil {
		id.Email = user.Email
		id.DisplayName = user.DisplayName
		id.AvatarURL = user.PhotoURL
		id.ProviderID = user.ProviderID
	}
	if provider := token.Firebase.SignInProvider; provider != "" {
		id.ProviderID = provider
	}
	return id, nil
}

// SaveProgress mirrors a completed step under progress/{persona}/{user}/{step}.
func (fc *FirebaseConnector) SaveProgress(ctx context.Context, p model.Progress) error {
	if fc.client == nil {
		return nil
	}
	ref := fc.client.NewRef("progress").Child(string(p.Persona.ID)).Child(p.UserID).Child(p.Step)
	entry := map[string]any{
		"data":       p.Data,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := ref.Set(ctx, entry); err != nil {
		return fmt.Errorf("error saving progress: %w", err)
	}
	return nil
}

// ReadProgress loads every saved step of a user, keyed by step.
func (fc *FirebaseConnector) ReadProgress(ctx context.Context, persona model.PersonaID, userID string) (map[string]model.Answers, error) {
	if fc.client == nil {
		return nil, nil
	}
	ref := fc.client.NewRef("progress").Child(string(persona)).Child(userID)
	var stored map[string]struct {
		Data model.Answers `json:"data"`
	}
	if err := ref.Get(ctx, &stored); err != nil {
		return nil, fmt.Errorf("error reading progress: %w", err)
	}
	out := make(map[string]model.Answers, len(stored))
	for step, entry := range stored {
		out[step] = entry.Data
	}
	return out, nil
}
