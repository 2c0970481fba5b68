package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestSplitQuestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "numbered list",
			input:  "1. What is Go?\n\n2. Explain goroutines.\n  3. What is a channel?  \n",
			expect: []string{"1. What is Go?", "2. Explain goroutines.", "3. What is a channel?"},
		},
		{
			name:   "preamble lines are kept verbatim",
			input:  "Here are five questions:\n1. Why Go?",
			expect: []string{"Here are five questions:", "1. Why Go?"},
		},
		{
			name:   "duplicates dropped",
			input:  "1. Why Go?\n1. Why Go?\n2. Why not?",
			expect: []string{"1. Why Go?", "2. Why not?"},
		},
		{
			name:   "blank response",
			input:  " \n\n ",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SplitQuestions(tt.input); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestGenerateQuestionsPrompt(t *testing.T) {
	stub := newStubGenerator(ok("1. A\n2. B\n3. C"))
	generator := NewQuestionGeneratorService(3, zap.NewNop())

	questions, err := generator.GenerateQuestions(context.Background(), stub, "Go, SQL", "Backend role")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %v", questions)
	}
	if !containsAll(stub.lastPrompt(), "Generate 3 interview questions", "Go, SQL", "Backend role", "numbered list") {
		t.Fatalf("unexpected prompt: %s", stub.lastPrompt())
	}
}

func TestGenerateQuestionsFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply stubReply
		check func(error) bool
	}{
		{name: "quota", reply: quota(), check: func(err error) bool { return errors.Is(err, ErrQuotaExceeded) }},
		{name: "generation failure", reply: failure("boom"), check: func(err error) bool {
			var genErr *GenerationError
			return errors.As(err, &genErr)
		}},
		{name: "empty response", reply: ok("\n \n"), check: func(err error) bool {
			var genErr *GenerationError
			return errors.As(err, &genErr)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := NewQuestionGeneratorService(0, nil)
			questions, err := generator.GenerateQuestions(context.Background(), newStubGenerator(tt.reply), "Go", "desc")
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if questions == nil || len(questions) != 0 {
				t.Fatalf("expected an empty, non-nil slice, got %#v", questions)
			}
		})
	}
}
