package stream

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		eventType string
		expected  Class
	}{
		{TypeStart, ClassStage},
		{TypeProgress, ClassStage},
		{TypeReasoningToken, ClassReasoning},
		{TypeAnswerToken, ClassAnswerAppend},
		{TypeAnalysisChunk, ClassAnswerAppend},
		{TypeAnswer, ClassAnswerAppend},
		{TypeFinalAnswer, ClassAnswerAppend},
		{TypeFinal, ClassAnswerAppend},
		{TypeAnswerComplete, ClassAnswerReplace},
		{TypeFinalComplete, ClassAnswerReplace},
		{TypeCodeChunk, ClassCodeAppend},
		{TypeCodeGenerated, ClassCodeReplace},
		{TypeToolCall, ClassToolCall},
		{TypeToolResult, ClassToolResult},
		{TypeDataReady, ClassDataReady},
		{TypeComplete, ClassTerminal},
		{TypeStreamEnd, ClassTerminal},
		{TypeError, ClassError},
		{"heartbeat", ClassIgnore},
		{"", ClassIgnore},
	}

	for _, tt := range tests {
		if got := Classify(tt.eventType); got != tt.expected {
			t.Errorf("Classify(%q) = %d, want %d", tt.eventType, got, tt.expected)
		}
	}
}

func TestEvent_IsTerminal(t *testing.T) {
	if !(Event{Type: TypeComplete}).IsTerminal() {
		t.Error("complete should be terminal")
	}
	if !(Event{Type: TypeStreamEnd}).IsTerminal() {
		t.Error("stream_end should be terminal")
	}
	if (Event{Type: TypeError}).IsTerminal() {
		t.Error("error is handled separately, not terminal")
	}
	if (Event{Type: TypeAnswerToken}).IsTerminal() {
		t.Error("answer_token should not be terminal")
	}
}

func TestEvent_StageLabel(t *testing.T) {
	ev := Event{Type: TypeProgress, Stage: "running query", Content: "ignored"}
	if got := ev.StageLabel(); got != "running query" {
		t.Errorf("StageLabel() = %q, want %q", got, "running query")
	}

	ev = Event{Type: TypeProgress, Content: "warming up"}
	if got := ev.StageLabel(); got != "warming up" {
		t.Errorf("StageLabel() = %q, want %q", got, "warming up")
	}
}
