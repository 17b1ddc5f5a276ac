// Package common defines shared sentinel errors used across the server
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Caller-side errors.
	ErrorValidation = errors.New("validation error")
	ErrorNotFound   = errors.New("not found")
	ErrorConflict   = errors.New("conflict")

	// Identity provider rejected the request (duplicate email, weak
	// credential, provider policy).
	ErrorIdentity = errors.New("identity provider error")

	// Credentials invalid or local account linkage missing.
	ErrorUnauthorized = errors.New("unauthorized")

	// Compensation after a partial failure did not complete; the provider
	// account may be dangling and needs out-of-band reconciliation.
	ErrorConsistency = errors.New("consistency error")

	// External call exceeded its deadline.
	ErrorTimeout = errors.New("timeout")

	// Generic statement/transaction failure.
	ErrorStore = errors.New("store error")

	// Auth token errors.
	ErrorInvalidToken = errors.New("invalid token")
)
