package server

import (
	"fmt"
	"time"

	"edumatch/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// issueToken mints a signed bearer token whose subject is the user id. The
// role travels as a claim for clients; authorization still resolves the user
// record per request.
func (s *Service) issueToken(user *types.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.tokenTTL)

	token, err := jwt.NewBuilder().
		Subject(user.ID).
		IssuedAt(now).
		Expiration(expires).
		Claim("role", string(user.Role)).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.signingKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expires, nil
}

func (s *Service) parseToken(raw string) (string, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), s.signingKey),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return userID, nil
}
