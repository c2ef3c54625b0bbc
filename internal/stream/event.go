// Package stream implements the wire protocol between the copilot client
// and the backend analysis agent: a long-lived HTTP response carrying
// newline-delimited JSON frames, one tagged event per frame.
package stream

// Event tags pushed by the backend agent. Several tags are aliases kept
// for older backend versions; Classify folds them together.
const (
	TypeStart          = "start"
	TypeProgress       = "progress"
	TypeReasoningToken = "reasoning_token"
	TypeAnswerToken    = "answer_token"
	TypeAnalysisChunk  = "analysis_chunk"
	TypeAnswer         = "answer"
	TypeFinalAnswer    = "final_answer"
	TypeFinal          = "final"
	TypeAnswerComplete = "answer_complete"
	TypeFinalComplete  = "final_answer_complete"
	TypeToolCall       = "tool_call"
	TypeToolResult     = "tool_result"
	TypeCodeChunk      = "code_chunk"
	TypeCodeGenerated  = "code_generated"
	TypeDataReady      = "data_ready"
	TypeComplete       = "complete"
	TypeStreamEnd      = "stream_end"
	TypeError          = "error"
)

// Event is a single frame from the agent stream. Only the fields relevant
// to the tag are populated; everything else is left at its zero value.
type Event struct {
	Type      string         `json:"type"`
	Content   string         `json:"content,omitempty"`
	Stage     string         `json:"stage,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    any            `json:"result,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Class is the single handling rule an event tag maps to.
type Class int

const (
	// ClassIgnore covers unknown tags; they never fail a session.
	ClassIgnore Class = iota
	ClassStage
	ClassReasoning
	ClassAnswerAppend
	ClassAnswerReplace
	ClassCodeAppend
	ClassCodeReplace
	ClassToolCall
	ClassToolResult
	ClassDataReady
	ClassTerminal
	ClassError
)

// Classify maps an event tag to its handling class. Every tag has exactly
// one class; unknown tags classify to ClassIgnore.
func Classify(eventType string) Class {
	switch eventType {
	case TypeStart, TypeProgress:
		return ClassStage
	case TypeReasoningToken:
		return ClassReasoning
	case TypeAnswerToken, TypeAnalysisChunk, TypeAnswer, TypeFinalAnswer, TypeFinal:
		return ClassAnswerAppend
	case TypeAnswerComplete, TypeFinalComplete:
		return ClassAnswerReplace
	case TypeCodeChunk:
		return ClassCodeAppend
	case TypeCodeGenerated:
		return ClassCodeReplace
	case TypeToolCall:
		return ClassToolCall
	case TypeToolResult:
		return ClassToolResult
	case TypeDataReady:
		return ClassDataReady
	case TypeComplete, TypeStreamEnd:
		return ClassTerminal
	case TypeError:
		return ClassError
	default:
		return ClassIgnore
	}
}

// IsTerminal reports whether the event closes the session.
func (e Event) IsTerminal() bool {
	return Classify(e.Type) == ClassTerminal
}

// StageLabel returns the human-readable stage text for a stage event,
// preferring the explicit stage field over free-form content.
func (e Event) StageLabel() string {
	if e.Stage != "" {
		return e.Stage
	}
	return e.Content
}
