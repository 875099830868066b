package model

import "errors"

var (
	ErrUnknownPersona = errors.New("persona does not exist")
	ErrUnknownField   = errors.New("field does not exist")
	ErrNotSignedIn    = errors.New("user is not signed in")
	ErrTokenExpired   = errors.New("sign-in token expired")
)
