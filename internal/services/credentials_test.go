package services

import (
	"context"
	"errors"
	"testing"
)

func TestCredentialStoreBuildsClientOnce(t *testing.T) {
	var built []string
	factory := func(_ context.Context, apiKey string) (GenerationClient, error) {
		built = append(built, apiKey)
		return newStubGenerator(), nil
	}
	store := NewCredentialStore(factory)
	ctx := context.Background()

	if _, err := store.Client(ctx, "s1"); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}

	if err := store.Set("s1", "  key-1 "); err != nil {
		t.Fatalf("set: %v", err)
	}
	first, err := store.Client(ctx, "s1")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	second, _ := store.Client(ctx, "s1")
	if first != second || len(built) != 1 || built[0] != "key-1" {
		t.Fatalf("expected one client for key-1, built %v", built)
	}

	_ = store.Set("s1", "key-2")
	if _, err := store.Client(ctx, "s1"); err != nil {
		t.Fatalf("client: %v", err)
	}
	if len(built) != 2 || built[1] != "key-2" {
		t.Fatalf("expected rebuild after key change, built %v", built)
	}

	if store.Has("s2") {
		t.Fatalf("credentials must be scoped to their session")
	}

	store.Forget("s1")
	if store.Has("s1") {
		t.Fatalf("expected credential to be forgotten")
	}
}

func TestCredentialStoreRejectsBlankKey(t *testing.T) {
	store := NewCredentialStore(nil)
	_ = store.Set("s1", "kept")

	if err := store.Set("s1", " \t"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if !store.Has("s1") {
		t.Fatalf("a rejected key must not replace the held one")
	}
}

func TestCredentialStoreClassifiesFactoryErrors(t *testing.T) {
	store := NewCredentialStore(func(context.Context, string) (GenerationClient, error) {
		return nil, errors.New("bad key format")
	})
	_ = store.Set("s1", "key")

	_, err := store.Client(context.Background(), "s1")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}
