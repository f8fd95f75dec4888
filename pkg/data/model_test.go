package data

import (
	"errors"
	"testing"
)

func TestChapterAdvanceForwardOnly(t *testing.T) {
	ch := &Chapter{}

	ch.Advance(StatusFetched)
	if ch.Status != StatusFetched {
		t.Fatalf("expected fetched, got %s", ch.Status)
	}

	ch.Advance(StatusTranslating)
	if ch.Status != StatusTranslating {
		t.Fatalf("expected translating, got %s", ch.Status)
	}

	// Stale update must not regress the state machine.
	ch.Advance(StatusFetched)
	if ch.Status != StatusTranslating {
		t.Fatalf("backward move applied, got %s", ch.Status)
	}
}

func TestChapterFailedIsTerminal(t *testing.T) {
	ch := &Chapter{}
	ch.Advance(StatusCleaned)
	ch.Fail(errors.New("boom"))

	if ch.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", ch.Status)
	}
	if ch.Err == nil {
		t.Fatal("expected failure cause to be recorded")
	}

	ch.Advance(StatusDelivered)
	if ch.Status != StatusFailed {
		t.Fatalf("failed chapter advanced to %s", ch.Status)
	}
}

func TestChapterFailReachableFromAnyStatus(t *testing.T) {
	for _, start := range []Status{StatusPending, StatusFetched, StatusTranslated} {
		ch := &Chapter{Status: start}
		ch.Advance(StatusFailed)
		if ch.Status != StatusFailed {
			t.Fatalf("advance to failed from %s gave %s", start, ch.Status)
		}
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusTranslating.String(); got != "translating" {
		t.Fatalf("expected translating, got %s", got)
	}
	if got := Status(99).String(); got != "unknown" {
		t.Fatalf("expected unknown, got %s", got)
	}
}
