// Package types defines shared data structures for the safety copilot client.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Dataset identifies which safety-operations dataset a question runs against.
type Dataset string

const (
	DatasetIncident   Dataset = "incident"
	DatasetHazard     Dataset = "hazard"
	DatasetAudit      Dataset = "audit"
	DatasetInspection Dataset = "inspection"
	DatasetAll        Dataset = "all"
)

// ParseDataset validates a dataset name. An empty string maps to DatasetAll.
func ParseDataset(s string) (Dataset, error) {
	switch Dataset(strings.ToLower(strings.TrimSpace(s))) {
	case DatasetIncident:
		return DatasetIncident, nil
	case DatasetHazard:
		return DatasetHazard, nil
	case DatasetAudit:
		return DatasetAudit, nil
	case DatasetInspection:
		return DatasetInspection, nil
	case DatasetAll, "":
		return DatasetAll, nil
	default:
		return "", fmt.Errorf("unknown dataset %q", s)
	}
}

// ToolCall records one tool invocation issued by the backend agent and,
// once correlated, its result.
type ToolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    *ToolResult    `json:"result,omitempty"`
	IssuedAt  time.Time      `json:"issued_at"`
}

// Resolved reports whether a result has been correlated to this call.
func (tc *ToolCall) Resolved() bool {
	return tc.Result != nil
}

// ConversationMessage is the unit of the history store: one completed
// question/answer exchange.
type ConversationMessage struct {
	ID        string         `json:"id"`
	Question  string         `json:"question"`
	Dataset   Dataset        `json:"dataset"`
	ToolCalls []ToolCall     `json:"tool_calls,omitempty"`
	Analysis  string         `json:"analysis"`
	Response  map[string]any `json:"response,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Empty reports whether the message carries no content worth persisting.
// The question counts as content: an exchange the user actually asked is
// recorded even when the agent produced nothing.
func (m ConversationMessage) Empty() bool {
	return m.Question == "" &&
		m.Analysis == "" &&
		len(m.ToolCalls) == 0 &&
		m.Response == nil
}

// Snapshot is a display-ready projection of an in-flight or just-finished
// session. The UI renders snapshots; it never touches session buffers.
type Snapshot struct {
	ID        string
	Question  string
	Dataset   Dataset
	Stage     string
	Reasoning string
	Answer    string
	Code      string
	ToolCalls []ToolCall
	Result    map[string]any
	Active    bool
}
