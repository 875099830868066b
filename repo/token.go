package repo

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"FunnelBot/model"
)

type identityClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// IdentityFromToken reads an ID token's claims without checking its
// signature. It is for tokens the backend verifies itself, e.g. one passed to
// the submit command; it tells the caller who the token names and when it
// stops being usable.
func IdentityFromToken(token string) (model.Identity, error) {
	var claims identityClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return model.Identity{}, fmt.Errorf("error parsing token: %w", err)
	}
	id := model.Identity{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
		Token:       token,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
