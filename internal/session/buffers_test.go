package session

import (
	"testing"
)

func TestBuffers_AppendOrder(t *testing.T) {
	var b buffers
	for _, tok := range []string{"a", "b", "c"} {
		b.appendAnswer(tok)
	}
	if got := b.answer.String(); got != "abc" {
		t.Errorf("answer = %q, want %q", got, "abc")
	}
}

func TestBuffers_ReplaceLocksAppends(t *testing.T) {
	var b buffers
	b.appendReasoning("thinking about it")
	b.appendAnswer("partial ")
	b.replaceAnswer("final answer")

	// Stale increments after the authoritative replacement are dropped.
	b.appendAnswer(" trailing token")

	if got := b.answer.String(); got != "final answer" {
		t.Errorf("answer = %q, want %q", got, "final answer")
	}
	if b.reasoning.Len() != 0 {
		t.Errorf("reasoning should be cleared on replacement, got %q", b.reasoning.String())
	}
}

func TestBuffers_LastReplaceWins(t *testing.T) {
	var b buffers
	b.replaceAnswer("first authoritative")
	b.replaceAnswer("second authoritative")
	if got := b.answer.String(); got != "second authoritative" {
		t.Errorf("answer = %q, want %q", got, "second authoritative")
	}
}

func TestBuffers_Backfill(t *testing.T) {
	var b buffers
	b.backfillAnswer("from terminal payload")
	if got := b.answer.String(); got != "from terminal payload" {
		t.Errorf("empty buffer should accept backfill, got %q", got)
	}

	b.backfillAnswer("should be ignored")
	if got := b.answer.String(); got != "from terminal payload" {
		t.Errorf("populated buffer must not be overwritten, got %q", got)
	}
}

func TestBuffers_Code(t *testing.T) {
	var b buffers
	b.appendCode("import ")
	b.appendCode("pandas")
	if got := b.code.String(); got != "import pandas" {
		t.Errorf("code = %q", got)
	}

	b.replaceCode("df.groupby('department')")
	if got := b.code.String(); got != "df.groupby('department')" {
		t.Errorf("code replacement failed, got %q", got)
	}
}

func TestBuffers_Reset(t *testing.T) {
	var b buffers
	b.appendReasoning("r")
	b.replaceAnswer("a")
	b.appendCode("c")
	if !b.hasContent() {
		t.Fatal("expected content before reset")
	}

	b.reset()
	if b.hasContent() {
		t.Error("expected no content after reset")
	}

	// The answer-mode lock must not leak into the next session.
	b.appendAnswer("fresh")
	if got := b.answer.String(); got != "fresh" {
		t.Errorf("append after reset = %q, want %q", got, "fresh")
	}
}
