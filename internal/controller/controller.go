package controller

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/client"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

//go:generate mockgen -source=controller.go -destination=mock_session_client_test.go -package=controller

// DefaultPollInterval is used when Options leaves the interval unset.
const DefaultPollInterval = 2 * time.Second

// User-facing error messages.
const (
	MsgCreateFailed = "Failed to create game"
	MsgMoveFailed   = "Failed to make move"
	MsgFetchFailed  = "Failed to fetch game state"
)

var (
	ErrNotStarted = errors.New("controller not started")
	ErrClosed     = errors.New("controller closed")
)

// SessionClient is the remote side of a game session.
type SessionClient interface {
	CreateSession(ctx context.Context) (game.State, error)
	FetchState(ctx context.Context, id string) (game.State, error)
	SubmitMove(ctx context.Context, id string, row, col int) (client.MoveResult, error)
}

// ViewState is a snapshot of the controller's state. Session is nil until a
// game has been created and is never shared with the controller.
type ViewState struct {
	Session *game.State
	Loading bool
	Error   string
	Polling bool
}

type Options struct {
	PollInterval time.Duration
	Clock        clockwork.Clock
}

// Controller keeps a local copy of one game session in step with the server.
// All state is owned by a single loop goroutine; the exported methods only
// post commands to it.
type Controller struct {
	client   SessionClient
	clock    clockwork.Clock
	interval time.Duration

	inbox   chan command
	results chan result
	updates chan ViewState
	running chan struct{}
	quit    chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool

	// owned by run
	state  ViewState
	poll   clockwork.Ticker
	seq    uint64
	reqCtx context.Context
	calls  sync.WaitGroup

	requests metric.Int64Counter
	skipped  metric.Int64Counter
}

// New creates a Controller. Nothing happens until Start is called.
func New(sc SessionClient, opts Options) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	meter := otel.Meter("controller")
	requests, err := meter.Int64Counter("client.requests",
		metric.WithDescription("Session requests by operation and outcome"))
	if err != nil {
		slog.Error("Failed to create request counter", "error", err)
		requests = noop.Int64Counter{}
	}
	skipped, err := meter.Int64Counter("client.poll.skipped",
		metric.WithDescription("Poll ticks skipped by the loading guard"))
	if err != nil {
		slog.Error("Failed to create poll counter", "error", err)
		skipped = noop.Int64Counter{}
	}

	return &Controller{
		client:   sc,
		clock:    opts.Clock,
		interval: opts.PollInterval,
		inbox:    make(chan command),
		results:  make(chan result),
		updates:  make(chan ViewState, 1),
		running:  make(chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		requests: requests,
		skipped:  skipped,
	}
}

// Start launches the loop and creates the first session. Requests made by
// the controller are bound to ctx; cancelling it tears the controller down.
// Calls after the first, or after Close, do nothing.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	close(c.running)
	go c.run(ctx)
}

// NewGame drops the current session and creates a new one. It is ignored
// while a request is in flight.
func (c *Controller) NewGame() {
	c.post(newGameCmd{})
}

// Move submits the cell (row, col). It is ignored while a request is in
// flight, without a session, or once the game is over.
func (c *Controller) Move(row, col int) {
	c.post(moveCmd{row: row, col: col})
}

// State returns the current snapshot.
func (c *Controller) State(ctx context.Context) (ViewState, error) {
	reply := make(chan ViewState, 1)
	if err := c.send(ctx, stateCmd{reply: reply}); err != nil {
		return ViewState{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return ViewState{}, ctx.Err()
	case <-c.done:
		return ViewState{}, ErrClosed
	}
}

// Updates delivers a snapshot after every change. Only the latest snapshot
// is kept for a slow reader. The channel is closed when the controller stops.
func (c *Controller) Updates() <-chan ViewState {
	return c.updates
}

// Close stops polling, cancels any in-flight request and stops the loop.
// When Close returns no tick is handled and no session call is running.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	started := c.started
	close(c.quit)
	c.mu.Unlock()

	if started {
		<-c.done
		return
	}
	close(c.done)
	close(c.updates)
}

func (c *Controller) post(cmd command) {
	_ = c.send(context.Background(), cmd)
}

func (c *Controller) send(ctx context.Context, cmd command) error {
	select {
	case <-c.running:
	case <-c.done:
		return ErrClosed
	default:
		return ErrNotStarted
	}
	select {
	case c.inbox <- cmd:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.reqCtx = ctx

	defer func() {
		cancel()
		// No session call may outlive the loop.
		c.calls.Wait()
		c.stopPolling()
		close(c.updates)
		close(c.done)
	}()

	c.publish()
	c.startCreate()

	for {
		select {
		case <-c.quit:
			return
		case <-ctx.Done():
			return
		case cmd := <-c.inbox:
			c.handle(cmd)
		case r := <-c.results:
			c.apply(r)
		case <-c.tick():
			c.onTick()
		}
	}
}

func (c *Controller) handle(cmd command) {
	switch cmd := cmd.(type) {
	case newGameCmd:
		if c.state.Loading {
			slog.DebugContext(c.reqCtx, "New game ignored while a request is in flight")
			return
		}
		c.state.Session = nil
		c.syncPolling()
		c.startCreate()

	case moveCmd:
		s := c.state.Session
		if c.state.Loading || s == nil || s.IsTerminal() {
			return
		}
		id, row, col := s.ID, cmd.row, cmd.col
		c.dispatch(opMove, func(ctx context.Context) result {
			res, err := c.client.SubmitMove(ctx, id, row, col)
			return result{move: res, err: err}
		})

	case stateCmd:
		cmd.reply <- c.snapshot()
	}
}

func (c *Controller) startCreate() {
	c.dispatch(opCreate, func(ctx context.Context) result {
		s, err := c.client.CreateSession(ctx)
		return result{state: s, err: err}
	})
}

func (c *Controller) onTick() {
	s := c.state.Session
	if s == nil || s.IsTerminal() {
		return
	}
	if c.state.Loading {
		c.skipped.Add(c.reqCtx, 1)
		return
	}
	id := s.ID
	c.dispatch(opFetch, func(ctx context.Context) result {
		st, err := c.client.FetchState(ctx, id)
		return result{state: st, err: err}
	})
}

// dispatch marks the controller loading, clears the error and runs call off
// the loop. The result is tagged with the session and sequence of this
// dispatch so a superseded result can be recognised.
func (c *Controller) dispatch(op string, call func(ctx context.Context) result) {
	c.seq++
	seq, sessionID, ctx := c.seq, c.sessionID(), c.reqCtx

	c.state.Loading = true
	c.state.Error = ""
	c.publish()

	c.calls.Add(1)
	go func() {
		defer c.calls.Done()
		r := call(ctx)
		r.op, r.seq, r.sessionID = op, seq, sessionID
		select {
		case c.results <- r:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) apply(r result) {
	// Loading belongs to the latest request. An older result leaves it to the
	// newer one, which is still outstanding.
	if r.seq == c.seq {
		defer c.publish()
		defer func() { c.state.Loading = false }()
	}
	if r.seq != c.seq || r.sessionID != c.sessionID() {
		slog.DebugContext(c.reqCtx, "Dropping superseded result", "op", r.op, "game.id", r.sessionID)
		return
	}

	outcome := "ok"
	switch r.op {
	case opCreate:
		if r.err != nil {
			outcome = "error"
			c.state.Error = MsgCreateFailed
			slog.WarnContext(c.reqCtx, "Failed to create game", "error", r.err)
			break
		}
		s := r.state
		c.state.Session = &s
		slog.InfoContext(c.reqCtx, "Game created", "game.id", s.ID)

	case opMove:
		switch {
		case r.err != nil:
			outcome = "error"
			c.state.Error = MsgMoveFailed
			slog.WarnContext(c.reqCtx, "Failed to make move", "game.id", r.sessionID, "error", r.err)
		case !r.move.Accepted:
			outcome = "rejected"
			c.state.Error = r.move.Reason
			slog.InfoContext(c.reqCtx, "Move rejected", "game.id", r.sessionID, "reason", r.move.Reason)
		default:
			c.replaceSession(r.move.State)
		}

	case opFetch:
		if r.err != nil {
			outcome = "error"
			c.state.Error = MsgFetchFailed
			slog.WarnContext(c.reqCtx, "Failed to fetch game state", "game.id", r.sessionID, "error", r.err)
			break
		}
		c.replaceSession(r.state)
	}

	c.requests.Add(c.reqCtx, 1, metric.WithAttributes(
		attribute.String("op", r.op),
		attribute.String("outcome", outcome),
	))
	c.syncPolling()
}

// replaceSession swaps in a server state for the current session. A finished
// game is never changed, and a state that would move the game backwards is
// treated as stale.
func (c *Controller) replaceSession(next game.State) {
	cur := c.state.Session
	if cur == nil || cur.IsTerminal() || next.ID != cur.ID {
		return
	}
	if next.MoveCount < cur.MoveCount {
		slog.WarnContext(c.reqCtx, "Ignoring stale game state", "game.id", cur.ID,
			"game.moves", next.MoveCount, "game.known_moves", cur.MoveCount)
		return
	}
	c.state.Session = &next
	if next.IsTerminal() {
		slog.InfoContext(c.reqCtx, "Game over", "game.id", next.ID, "game.status", next.Status, "game.winner", next.Winner)
	}
}

// syncPolling makes the ticker match the session: running exactly while an
// ongoing session exists. It is the only place the ticker is created or
// released.
func (c *Controller) syncPolling() {
	s := c.state.Session
	want := s != nil && !s.IsTerminal()

	switch {
	case want && c.poll == nil:
		c.poll = c.clock.NewTicker(c.interval)
		slog.DebugContext(c.reqCtx, "Polling started", "game.id", s.ID, "interval", c.interval)
	case !want && c.poll != nil:
		c.stopPolling()
		slog.DebugContext(c.reqCtx, "Polling stopped")
	}
}

func (c *Controller) stopPolling() {
	if c.poll == nil {
		return
	}
	c.poll.Stop()
	c.poll = nil
}

// tick returns the ticker channel, or nil so the select never fires when
// nothing is polling.
func (c *Controller) tick() <-chan time.Time {
	if c.poll == nil {
		return nil
	}
	return c.poll.Chan()
}

func (c *Controller) sessionID() string {
	if c.state.Session == nil {
		return ""
	}
	return c.state.Session.ID
}

func (c *Controller) snapshot() ViewState {
	v := c.state
	if v.Session != nil {
		v.Session = v.Session.Clone()
	}
	v.Polling = c.poll != nil
	return v
}

// publish replaces any unread snapshot with the current one.
func (c *Controller) publish() {
	snap := c.snapshot()
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- snap:
	default:
	}
}
