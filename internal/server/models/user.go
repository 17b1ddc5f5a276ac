// Package models defines the relational row types shared by repositories
// and services.
package models

import "time"

// User is a local user row. ExternalID links the row to the identity
// provider account that owns the credentials; the server never stores
// credentials itself.
type User struct {
	ID            int64
	Name          string
	Email         string
	TermsAccepted bool
	ExternalID    string
	CreatedAt     time.Time
}
