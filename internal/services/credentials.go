package services

import (
	"context"
	"strings"
	"sync"
)

// CredentialStore holds generation credentials per session in process memory.
// Keys are never written to session storage.
type CredentialStore interface {
	Set(sessionID, apiKey string) error
	Has(sessionID string) bool
	Client(ctx context.Context, sessionID string) (GenerationClient, error)
	Forget(sessionID string)
}

type credential struct {
	apiKey string
	client GenerationClient
}

type credentialStore struct {
	mu      sync.Mutex
	factory GenerationFactory
	entries map[string]*credential
}

func NewCredentialStore(factory GenerationFactory) CredentialStore {
	return &credentialStore{
		factory: factory,
		entries: make(map[string]*credential),
	}
}

// Set implements CredentialStore. A blank key is rejected and leaves any
// existing credential in place.
func (s *credentialStore) Set(sessionID, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrInvalidCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = &credential{apiKey: apiKey}
	return nil
}

// Has implements CredentialStore.
func (s *credentialStore) Has(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[sessionID]
	return ok
}

// Client implements CredentialStore. The client is built on first use and
// reused until the credential changes.
func (s *credentialStore) Client(ctx context.Context, sessionID string) (GenerationClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrMissingCredential
	}

	if entry.client == nil {
		client, err := s.factory(ctx, entry.apiKey)
		if err != nil {
			return nil, classify("create generation client", err)
		}
		entry.client = client
	}

	return entry.client, nil
}

// Forget implements CredentialStore.
func (s *credentialStore) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
}
