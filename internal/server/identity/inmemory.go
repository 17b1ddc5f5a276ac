package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// InMemoryProvider is a self-contained Provider for development and tests.
// Credentials are stored as bcrypt hashes; raw credentials are never kept.
type InMemoryProvider struct {
	mu       sync.RWMutex
	accounts map[string]*inMemoryAccount // keyed by email
}

type inMemoryAccount struct {
	externalID     string
	credentialHash []byte
}

func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{accounts: make(map[string]*inMemoryAccount)}
}

func (p *InMemoryProvider) CreateAccount(ctx context.Context, email, credential string) (*Account, error) {
	if len(credential) < 6 {
		return nil, fmt.Errorf("%w: credential too weak", common.ErrorIdentity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[email]; ok {
		return nil, fmt.Errorf("%w: email already registered", common.ErrorIdentity)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing credential: %w", err)
	}

	acc := &inMemoryAccount{
		externalID:     uuid.NewString(),
		credentialHash: hash,
	}
	p.accounts[email] = acc

	return &Account{ExternalID: acc.externalID, Email: email, RemovalToken: email}, nil
}

func (p *InMemoryProvider) VerifyCredentials(ctx context.Context, email, credential string) (*Account, error) {
	p.mu.RLock()
	acc, ok := p.accounts[email]
	p.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword(acc.credentialHash, []byte(credential)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
	}

	return &Account{ExternalID: acc.externalID, Email: email}, nil
}

func (p *InMemoryProvider) UpdateCredential(ctx context.Context, email, current, updated string) error {
	if _, err := p.VerifyCredentials(ctx, email, current); err != nil {
		return err
	}
	if len(updated) < 6 {
		return fmt.Errorf("%w: credential too weak", common.ErrorIdentity)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing credential: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[email].credentialHash = hash
	return nil
}

func (p *InMemoryProvider) RemoveAccount(ctx context.Context, account *Account) error {
	if account == nil {
		return fmt.Errorf("%w: nil account", common.ErrorConsistency)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[account.Email]; !ok {
		return fmt.Errorf("%w: account not found", common.ErrorNotFound)
	}
	delete(p.accounts, account.Email)
	return nil
}
