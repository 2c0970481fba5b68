package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
)

// stubGenerator answers prompts from a script of replies, one per call.
type stubGenerator struct {
	mu      sync.Mutex
	replies []stubReply
	prompts []string
}

type stubReply struct {
	text string
	err  error
}

func newStubGenerator(replies ...stubReply) *stubGenerator {
	return &stubGenerator{replies: replies}
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", &GenerationError{Op: "stub", Err: errors.New("no scripted reply")}
	}

	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply.text, reply.err
}

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func (s *stubGenerator) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

func ok(text string) stubReply {
	return stubReply{text: text}
}

func quota() stubReply {
	return stubReply{err: quotaError(errors.New("429 RESOURCE_EXHAUSTED"))}
}

func failure(msg string) stubReply {
	return stubReply{err: &GenerationError{Op: "stub", Err: errors.New(msg)}}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
