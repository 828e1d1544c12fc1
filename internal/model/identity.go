package model

import "context"

// IdentityVerifier validates an external identity token against the
// provider's signing keys and returns the asserted identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (ExternalIdentity, error)
}

// ExternalIdentity is a verified identity assertion from an external
// provider.
type ExternalIdentity struct {
	Subject string
	Email   string
	Name    string
}
