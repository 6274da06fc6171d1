package service

import (
	"errors"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type GoogleVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

type googleCertVerifier struct {
	clientID string
	v        googleAuthIDTokenVerifier.Verifier
}

// NewGoogleVerifier checks ID tokens against Google's certs for clientID.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleCertVerifier{clientID: clientID}
}

func (g *googleCertVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	if g.clientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID is not configured")
	}
	if err := g.v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	return &GoogleIdentity{
		Subject:       claimSet.Sub,
		Email:         claimSet.Email,
		EmailVerified: claimSet.EmailVerified,
		Name:          claimSet.Name,
	}, nil
}
