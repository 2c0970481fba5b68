package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/skill-profiler/internal/models"
)

func TestEvaluateBlankAnswersSkipGeneration(t *testing.T) {
	stub := newStubGenerator(ok("7"))
	evaluator := NewEvaluatorService(zap.NewNop())

	result, err := evaluator.Evaluate(context.Background(), stub,
		[]string{"q1", "q2", "q3"},
		[]string{"", "  \n", "a real answer"},
		"Build APIs",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls() != 1 {
		t.Fatalf("expected a single generation call, got %d", stub.calls())
	}

	entries := result.Entries()
	if entries[0].Score != "0" || entries[1].Score != "0" {
		t.Fatalf("blank answers must score 0: %+v", entries)
	}
	if entries[2].Score != "7" {
		t.Fatalf("expected score 7, got %q", entries[2].Score)
	}
	if !containsAll(stub.lastPrompt(), "Build APIs", "q3", "a real answer", "0-10") {
		t.Fatalf("unexpected prompt: %s", stub.lastPrompt())
	}
}

func TestEvaluateTotalsMixedOutcomes(t *testing.T) {
	stub := newStubGenerator(ok(" 7\n"), failure("boom"), ok("10 - solid answer"))
	evaluator := NewEvaluatorService(zap.NewNop())

	result, err := evaluator.Evaluate(context.Background(), stub,
		[]string{"q1", "q2", "q3", "q4"},
		[]string{"a1", "a2", "a3", ""},
		"desc",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Total() != 17 {
		t.Fatalf("expected total 17, got %d", result.Total())
	}

	entries := result.Entries()
	if entries[0].Score != "7" {
		t.Fatalf("expected trimmed score, got %q", entries[0].Score)
	}
	if !entries[1].Failed || entries[1].DisplayScore() != "Error in evaluation" {
		t.Fatalf("expected evaluation error marker, got %+v", entries[1])
	}
}

func TestEvaluateStopsOnQuota(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	stub := newStubGenerator(ok("8"), ok("6"), quota(), ok("9"), ok("9"))
	evaluator := NewEvaluatorService(zap.New(core))

	questions := []string{"q1", "q2", "q3", "q4", "q5"}
	answers := []string{"a1", "a2", "a3", "a4", "a5"}

	result, err := evaluator.Evaluate(context.Background(), stub, questions, answers, "desc")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}

	if result.Len() != 2 {
		t.Fatalf("expected only the first two entries, got %d", result.Len())
	}
	if _, found := result.Get("q3"); found {
		t.Fatalf("the rejected question must not be recorded")
	}
	if stub.calls() != 3 {
		t.Fatalf("no call may follow the quota rejection, got %d calls", stub.calls())
	}
	if result.Total() != 14 {
		t.Fatalf("expected partial total 14, got %d", result.Total())
	}

	if observed.FilterMessage("evaluation stopped by quota").Len() != 1 {
		t.Fatalf("expected a quota warning to be logged")
	}
}

func TestEvaluateRejectsMisalignedAnswers(t *testing.T) {
	stub := newStubGenerator()
	evaluator := NewEvaluatorService(nil)

	_, err := evaluator.Evaluate(context.Background(), stub, []string{"q1", "q2"}, []string{"a1"}, "desc")
	if !errors.Is(err, models.ErrAnswerIndex) {
		t.Fatalf("expected ErrAnswerIndex, got %v", err)
	}
	if stub.calls() != 0 {
		t.Fatalf("nothing may be evaluated, got %d calls", stub.calls())
	}
}
