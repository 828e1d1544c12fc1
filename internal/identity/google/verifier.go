package google

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/AyanMustafa/Anevo/internal/model"
)

var _ model.IdentityVerifier = (*Verifier)(nil)

// verifyTimeout bounds the round-trip to Google's certificate endpoint.
const verifyTimeout = 10 * time.Second

// Verifier validates Google ID tokens issued for the configured OAuth
// client id.
type Verifier struct {
	clientID string
	validate func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// NewVerifier creates a Verifier expecting tokens with clientID as
// their audience.
func NewVerifier(clientID string) *Verifier {
	return &Verifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

// Verify checks the token signature, expiry and audience, and extracts
// the asserted identity. Any failure, including timeout, denies access.
func (v *Verifier) Verify(ctx context.Context, token string) (model.ExternalIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("failed to validate id token: %w", err)
	}

	return identityFromPayload(payload)
}

func identityFromPayload(payload *idtoken.Payload) (model.ExternalIdentity, error) {
	if payload.Subject == "" {
		return model.ExternalIdentity{}, fmt.Errorf("id token has no subject")
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return model.ExternalIdentity{}, fmt.Errorf("id token has no email claim")
	}

	name, _ := payload.Claims["name"].(string)

	return model.ExternalIdentity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}
