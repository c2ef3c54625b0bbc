// Package session implements the streaming conversation engine: one
// controller owning at most one open agent stream, applying events in
// arrival order to a set of token buffers and a tool-call correlator, and
// committing the finished exchange to the history store exactly once.
package session

import "strings"

// buffers holds the per-session token accumulators. Each event class maps
// to exactly one mutation rule; see the controller's apply switch.
type buffers struct {
	reasoning strings.Builder
	answer    strings.Builder
	code      strings.Builder

	// answerMode is set once an authoritative *_complete event replaces
	// the answer. From then on incremental answer tokens are stale and
	// must not re-append.
	answerMode bool
}

func (b *buffers) appendReasoning(s string) {
	b.reasoning.WriteString(s)
}

// appendAnswer appends an answer increment unless an authoritative
// replacement already locked the buffer.
func (b *buffers) appendAnswer(s string) {
	if b.answerMode || s == "" {
		return
	}
	b.answer.WriteString(s)
}

// replaceAnswer installs authoritative answer text, dropping any
// accumulated increments and the reasoning scratch. Between two
// authoritative events the later one wins.
func (b *buffers) replaceAnswer(s string) {
	b.answer.Reset()
	b.answer.WriteString(s)
	b.reasoning.Reset()
	b.answerMode = true
}

// backfillAnswer sets the answer from a terminal payload when nothing
// else produced one. A populated buffer is left alone.
func (b *buffers) backfillAnswer(s string) {
	if b.answer.Len() == 0 && s != "" {
		b.answer.WriteString(s)
	}
}

func (b *buffers) appendCode(s string) {
	b.code.WriteString(s)
}

func (b *buffers) replaceCode(s string) {
	b.code.Reset()
	b.code.WriteString(s)
}

func (b *buffers) reset() {
	b.reasoning.Reset()
	b.answer.Reset()
	b.code.Reset()
	b.answerMode = false
}

func (b *buffers) hasContent() bool {
	return b.reasoning.Len() > 0 || b.answer.Len() > 0 || b.code.Len() > 0
}
