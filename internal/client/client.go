package client

import (
	"bytes"
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/pkg/proto"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("client")

const (
	opCreate = "CreateSession"
	opFetch  = "FetchState"
	opMove   = "SubmitMove"

	// DefaultReason is reported for a rejected move the server did not explain.
	DefaultReason = "Invalid move"

	maxErrorBody = 4 << 10
)

// MoveResult is the outcome of a move the server understood. A rejected move
// is not an error: Accepted is false and Reason carries the server's text.
type MoveResult struct {
	Accepted bool
	State    game.State
	Reason   string
}

// Client talks to the game server over HTTP with JSON bodies.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the server at baseURL. A zero timeout leaves
// request lifetimes to the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CreateSession asks the server for a new game. A missing move count means
// the game has not started and is read as zero.
func (c *Client) CreateSession(ctx context.Context) (game.State, error) {
	ctx, span := tracer.Start(ctx, "client.CreateSession")
	defer span.End()

	var msg proto.GameStateMessage
	if err := c.do(ctx, opCreate, http.MethodPost, "/game", nil, &msg); err != nil {
		return game.State{}, fail(ctx, span, opCreate, err)
	}
	if msg.ID == "" {
		return game.State{}, fail(ctx, span, opCreate, &ProtocolError{Op: opCreate, Err: errors.New("missing game id")})
	}

	s, err := msg.ToState(msg.ID, proto.MovesDefaultZero)
	if err != nil {
		return game.State{}, fail(ctx, span, opCreate, &ProtocolError{Op: opCreate, Err: err})
	}

	span.SetAttributes(attribute.String("game.id", s.ID))
	slog.DebugContext(ctx, "Session created", "game.id", s.ID)
	return *s, nil
}

// FetchState retrieves the current state of the session id. A missing move
// count is derived from the occupied cells.
func (c *Client) FetchState(ctx context.Context, id string) (game.State, error) {
	ctx, span := tracer.Start(ctx, "client.FetchState", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	if id == "" {
		return game.State{}, fail(ctx, span, opFetch, ErrEmptySessionID)
	}

	var msg proto.GameStateMessage
	if err := c.do(ctx, opFetch, http.MethodGet, "/game/"+url.PathEscape(id), nil, &msg); err != nil {
		return game.State{}, fail(ctx, span, opFetch, err)
	}
	if msg.ID != "" && msg.ID != id {
		return game.State{}, fail(ctx, span, opFetch, &ProtocolError{Op: opFetch, Err: fmt.Errorf("response is for game %q", msg.ID)})
	}

	s, err := msg.ToState(id, proto.MovesFromBoard)
	if err != nil {
		return game.State{}, fail(ctx, span, opFetch, &ProtocolError{Op: opFetch, Err: err})
	}
	return *s, nil
}

// SubmitMove plays the cell (row, col) in session id. The server decides
// legality; only indices outside the board are refused locally.
func (c *Client) SubmitMove(ctx context.Context, id string, row, col int) (MoveResult, error) {
	ctx, span := tracer.Start(ctx, "client.SubmitMove", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	if id == "" {
		return MoveResult{}, fail(ctx, span, opMove, ErrEmptySessionID)
	}
	if !game.InBounds(row, col) {
		return MoveResult{}, fail(ctx, span, opMove, fmt.Errorf("%w: (%d, %d)", game.ErrInvalidCell, row, col))
	}

	var resp proto.MoveResponse
	if err := c.do(ctx, opMove, http.MethodPost, "/move", proto.NewMoveRequest(id, row, col), &resp); err != nil {
		return MoveResult{}, fail(ctx, span, opMove, err)
	}

	if !resp.Valid {
		reason := resp.Error
		if reason == "" {
			reason = DefaultReason
		}
		span.SetAttributes(attribute.Bool("move.accepted", false))
		slog.DebugContext(ctx, "Move rejected", "game.id", id, "reason", reason)
		return MoveResult{Accepted: false, Reason: reason}, nil
	}

	if resp.State == nil {
		return MoveResult{}, fail(ctx, span, opMove, &ProtocolError{Op: opMove, Err: errors.New("accepted move without state")})
	}
	s, err := resp.State.ToState(id, proto.MovesRequired)
	if err != nil {
		return MoveResult{}, fail(ctx, span, opMove, &ProtocolError{Op: opMove, Err: err})
	}

	span.SetAttributes(attribute.Bool("move.accepted", true))
	return MoveResult{Accepted: true, State: *s}, nil
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(errorText(resp.Body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{Op: op, Err: fmt.Errorf("failed to decode body: %w", err)}
	}
	return nil
}

// errorText extracts the server's explanation from a non-2xx body.
func errorText(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var msg proto.ErrorMessage
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Error != "" {
		return msg.Error
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return "empty response"
}

func fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	slog.WarnContext(ctx, "Session call failed", "op", op, "error", err)
	return err
}
