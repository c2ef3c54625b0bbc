package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/arnavsh/safety-copilot/internal/history"
	"github.com/arnavsh/safety-copilot/internal/stream"
	"github.com/arnavsh/safety-copilot/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyQuestion is returned by Start for a blank question; the session
// state is left untouched.
var ErrEmptyQuestion = errors.New("question is empty")

// EventSource is one open stream of agent events, applied in arrival order.
type EventSource interface {
	Next() (stream.Event, error)
	Close() error
}

// OpenFunc dials the backend agent for one session.
type OpenFunc func(ctx context.Context, req stream.Request) (EventSource, error)

// Dial adapts a stream.Client into an OpenFunc.
func Dial(c *stream.Client) OpenFunc {
	return func(ctx context.Context, req stream.Request) (EventSource, error) {
		return c.Open(ctx, req)
	}
}

// Callbacks deliver session output. All callbacks are invoked without
// internal locks held and may be nil.
type Callbacks struct {
	// OnUpdate receives debounced display snapshots while the session is
	// open and a final snapshot at termination.
	OnUpdate func(types.Snapshot)
	// OnClose fires once per session at the open-to-closed transition.
	OnClose func(types.Snapshot)
	// OnError fires only for transport errors with no accumulated
	// content; every other failure degrades to a partial result.
	OnError func(error)
}

// Config holds controller tuning.
type Config struct {
	Model      string
	Debounce   time.Duration // trailing debounce for display snapshots
	GraceDelay time.Duration // delay before transient state is cleared after close
}

// Controller owns at most one open agent stream at a time. Events mutate a
// single session state on one goroutine; a generation counter fences off
// deliveries from streams that have already been replaced or stopped.
type Controller struct {
	open   OpenFunc
	store  *history.Store
	cfg    Config
	cb     Callbacks
	logger *zap.Logger
	deb    *debouncer

	mu         sync.Mutex
	gen        uint64
	active     bool
	src        EventSource
	cancel     context.CancelFunc
	id         string
	question   string
	dataset    types.Dataset
	stage      string
	buf        buffers
	corr       correlator
	result     map[string]any
	clearTimer *time.Timer
}

// New creates a controller. store may be nil, in which case exchanges are
// not persisted; a nil logger is replaced with a no-op.
func New(open OpenFunc, store *history.Store, cfg Config, cb Callbacks, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 150 * time.Millisecond
	}
	if cfg.GraceDelay <= 0 {
		cfg.GraceDelay = 250 * time.Millisecond
	}
	c := &Controller{
		open:   open,
		store:  store,
		cfg:    cfg,
		cb:     cb,
		logger: logger,
		corr:   correlator{logger: logger},
	}
	c.deb = newDebouncer(cfg.Debounce, func() {
		if c.cb.OnUpdate != nil {
			c.cb.OnUpdate(c.Snapshot())
		}
	})
	return c
}

// pendingClose carries everything the closed session needs outside the
// lock: the connection to tear down and the frozen commit candidate.
type pendingClose struct {
	src    EventSource
	cancel context.CancelFunc
	msg    types.ConversationMessage
	snap   types.Snapshot
}

// Start opens a stream for question against dataset and returns
// immediately; results arrive through the callbacks. A session that is
// still open is closed first, never silently abandoned.
func (c *Controller) Start(ctx context.Context, question string, dataset types.Dataset) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	c.mu.Lock()
	var stale *pendingClose
	if c.active {
		stale = c.closeLocked()
	}
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
	c.gen++
	gen := c.gen
	// The id is minted before any network call so a duplicate commit is
	// detectable no matter how the session ends.
	c.id = uuid.NewString()
	c.question = question
	c.dataset = dataset
	c.stage = "starting"
	c.buf.reset()
	c.corr.reset()
	c.result = nil
	c.active = true
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	req := stream.Request{Question: question, Dataset: dataset, Model: c.cfg.Model}
	c.mu.Unlock()

	c.finishClose(stale)
	go c.run(runCtx, gen, req)
	return nil
}

// Stop closes the active stream, keeping partial content for the commit
// decision. Safe to call at any time, any number of times.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.stage = ""
	p := c.closeLocked()
	c.gen++
	c.scheduleClearLocked(c.gen)
	c.mu.Unlock()
	c.finishClose(p)
}

// Active reports whether a stream is currently open.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Snapshot returns the current display state immediately, bypassing the
// debounce. While a session is open the debounced OnUpdate path lags this
// value; it never reorders it.
func (c *Controller) Snapshot() types.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) run(ctx context.Context, gen uint64, req stream.Request) {
	src, err := c.open(ctx, req)
	if err != nil {
		c.fail(gen, fmt.Errorf("open stream: %w", err))
		return
	}

	c.mu.Lock()
	if gen != c.gen || !c.active {
		// A newer session took over while dialing.
		c.mu.Unlock()
		_ = src.Close()
		return
	}
	c.src = src
	c.mu.Unlock()

	for {
		ev, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Stream ended without an explicit terminal event;
				// treat accumulated content as final.
				c.finalize(gen, nil)
			} else {
				c.fail(gen, err)
			}
			return
		}
		if done := c.apply(gen, ev); done {
			return
		}
	}
}

// apply routes one event to its buffer-mutation rule. Returns true once
// the session is closed and the read loop should stop.
func (c *Controller) apply(gen uint64, ev stream.Event) bool {
	switch stream.Classify(ev.Type) {
	case stream.ClassTerminal:
		c.finalize(gen, &ev)
		return true
	case stream.ClassError:
		msg := ev.Error
		if msg == "" {
			msg = "agent reported an error"
		}
		c.fail(gen, errors.New(msg))
		return true
	case stream.ClassIgnore:
		return false
	}

	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		return true
	}
	switch stream.Classify(ev.Type) {
	case stream.ClassStage:
		c.stage = ev.StageLabel()
	case stream.ClassReasoning:
		c.buf.appendReasoning(ev.Content)
	case stream.ClassAnswerAppend:
		c.buf.appendAnswer(ev.Content)
	case stream.ClassAnswerReplace:
		c.buf.replaceAnswer(ev.Content)
	case stream.ClassCodeAppend:
		c.buf.appendCode(ev.Content)
	case stream.ClassCodeReplace:
		c.buf.replaceCode(ev.Content)
	case stream.ClassToolCall:
		c.corr.onCall(ev.Tool, ev.Arguments)
	case stream.ClassToolResult:
		c.corr.onResult(ev.Tool, ev.Result)
	case stream.ClassDataReady:
		c.result = ev.Data
	}
	c.mu.Unlock()

	c.deb.bump()
	return false
}

// finalize closes the session on a terminal event (or EOF when ev is nil).
func (c *Controller) finalize(gen uint64, ev *stream.Event) {
	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		return
	}
	if ev != nil {
		c.buf.backfillAnswer(terminalText(ev.Data))
	}
	c.stage = ""
	p := c.closeLocked()
	c.gen++
	c.scheduleClearLocked(c.gen)
	c.mu.Unlock()
	c.finishClose(p)
}

// fail handles transport-level errors and fatal error events. With
// accumulated content the failure degrades to a normal close; with none
// it surfaces through OnError, before the close transition completes.
// The commit decision runs either way.
func (c *Controller) fail(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		return
	}
	hadContent := c.buf.hasContent() || len(c.corr.calls) > 0 || c.result != nil
	c.stage = ""
	p := c.closeLocked()
	c.gen++
	c.scheduleClearLocked(c.gen)
	c.mu.Unlock()

	if hadContent {
		c.logger.Warn("stream failed, keeping partial content as final",
			zap.Error(err), zap.String("id", p.msg.ID))
		c.finishClose(p)
		return
	}
	c.logger.Error("stream failed with no content", zap.Error(err), zap.String("id", p.msg.ID))
	// OnError strictly precedes OnClose so a consumer watching both
	// never observes a silent close for a surfaced failure.
	if c.cb.OnError != nil {
		c.cb.OnError(err)
	}
	c.finishClose(p)
}

// closeLocked freezes the session for the open-to-closed transition and
// detaches the connection so it can be torn down outside the lock.
func (c *Controller) closeLocked() *pendingClose {
	p := &pendingClose{
		src:    c.src,
		cancel: c.cancel,
		msg:    c.messageLocked(),
		snap:   c.snapshotLocked(),
	}
	c.active = false
	p.snap.Active = false
	c.src = nil
	c.cancel = nil
	return p
}

// finishClose tears down the stream, runs the commit policy, and flushes
// the final snapshot past the debouncer. Connection close comes first: at
// most one connection is ever open. The exchange is committed by the time
// OnClose fires.
func (c *Controller) finishClose(p *pendingClose) {
	if p == nil {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	if p.src != nil {
		_ = p.src.Close()
	}
	c.deb.cancel()
	c.commit(p.msg)
	if c.cb.OnUpdate != nil {
		c.cb.OnUpdate(p.snap)
	}
	if c.cb.OnClose != nil {
		c.cb.OnClose(p.snap)
	}
}

// commit appends the exchange to the history store iff it has an id that
// was not committed before and carries any content. The store's own id
// check makes a second invocation for the same session a no-op.
func (c *Controller) commit(msg types.ConversationMessage) {
	if c.store == nil || msg.ID == "" || msg.Empty() {
		return
	}
	if c.store.Committed(msg.ID) {
		return
	}
	if err := c.store.Append(msg); err != nil {
		// Durability is best effort; the in-memory conversation stands.
		c.logger.Error("failed to persist exchange",
			zap.Error(err), zap.String("id", msg.ID))
	}
}

func (c *Controller) scheduleClearLocked(gen uint64) {
	if c.clearTimer != nil {
		c.clearTimer.Stop()
	}
	c.clearTimer = time.AfterFunc(c.cfg.GraceDelay, func() {
		c.clearTransient(gen)
	})
}

// clearTransient wipes per-session state once the grace delay for final
// rendering has passed, unless a newer session already took over.
func (c *Controller) clearTransient(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.active {
		return
	}
	c.buf.reset()
	c.corr.reset()
	c.result = nil
	c.stage = ""
	c.id = ""
	c.question = ""
}

func (c *Controller) messageLocked() types.ConversationMessage {
	return types.ConversationMessage{
		ID:        c.id,
		Question:  c.question,
		Dataset:   c.dataset,
		ToolCalls: c.corr.snapshot(),
		Analysis:  c.buf.answer.String(),
		Response:  c.result,
		Timestamp: time.Now().UnixMilli(),
	}
}

func (c *Controller) snapshotLocked() types.Snapshot {
	return types.Snapshot{
		ID:        c.id,
		Question:  c.question,
		Dataset:   c.dataset,
		Stage:     c.stage,
		Reasoning: c.buf.reasoning.String(),
		Answer:    c.buf.answer.String(),
		Code:      c.buf.code.String(),
		ToolCalls: c.corr.snapshot(),
		Result:    c.result,
		Active:    c.active,
	}
}

// terminalText picks the answer text from a terminal payload, preferring
// an explicit answer over the analysis fallback.
func terminalText(data map[string]any) string {
	if data == nil {
		return ""
	}
	if s, ok := data["answer"].(string); ok && s != "" {
		return s
	}
	if s, ok := data["analysis"].(string); ok {
		return s
	}
	return ""
}
