package session

import (
	"time"

	"github.com/arnavsh/safety-copilot/internal/types"
	"go.uber.org/zap"
)

// correlator pairs asynchronous tool_call and tool_result events. The wire
// format carries no call id, so a result resolves the earliest call with
// the same tool name that has no result yet (first-unresolved-wins).
type correlator struct {
	calls  []types.ToolCall
	logger *zap.Logger
}

func (c *correlator) onCall(tool string, args map[string]any) {
	c.calls = append(c.calls, types.ToolCall{
		Tool:      tool,
		Arguments: args,
		IssuedAt:  time.Now().UTC(),
	})
}

// onResult resolves a result against its call and reports whether a match
// was found. Unmatched results are dropped, not fatal.
func (c *correlator) onResult(tool string, result any) bool {
	for i := range c.calls {
		if c.calls[i].Tool == tool && !c.calls[i].Resolved() {
			c.calls[i].Result = types.ParseToolResult(result)
			return true
		}
	}
	c.logger.Warn("dropping tool result with no unmatched call",
		zap.String("tool", tool))
	return false
}

func (c *correlator) snapshot() []types.ToolCall {
	if len(c.calls) == 0 {
		return nil
	}
	out := make([]types.ToolCall, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *correlator) reset() {
	c.calls = nil
}
