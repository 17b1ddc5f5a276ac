// Package identity wraps the external authentication service behind a small
// Provider interface. Implementations are pure boundary clients: they have no
// knowledge of the relational store and no side effects beyond the provider's
// own state.
package identity

import "context"

// Account is a provider-side identity handle.
type Account struct {
	// ExternalID is the opaque subject id issued by the provider.
	ExternalID string
	Email      string

	// RemovalToken is a provider-scoped handle valid for removing a freshly
	// created account (compensation). Only set by CreateAccount.
	RemovalToken string
}

// Provider is the identity provider adapter.
//
// CreateAccount and VerifyCredentials fail with common.ErrorIdentity and
// common.ErrorUnauthorized respectively; a deadline hit on the underlying
// call surfaces as common.ErrorTimeout.
type Provider interface {
	// CreateAccount registers a new account with the provider.
	CreateAccount(ctx context.Context, email, credential string) (*Account, error)

	// VerifyCredentials checks an email/credential pair and returns the
	// matching account. Callers must not be able to tell an unknown email
	// from a wrong credential.
	VerifyCredentials(ctx context.Context, email, credential string) (*Account, error)

	// RemoveAccount deletes an account previously returned by CreateAccount.
	// Used only for compensation after a failed local commit.
	RemoveAccount(ctx context.Context, account *Account) error
}

// CredentialUpdater is implemented by providers that can rotate an
// account's credential after re-verifying the current one.
type CredentialUpdater interface {
	UpdateCredential(ctx context.Context, email, current, updated string) error
}
