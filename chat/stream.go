package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/undrstnd-labs/undrstnd-go"
	"github.com/undrstnd-labs/undrstnd-go/adapter"
)

// StreamResult is an open stream. Parts is closed after a FinishPart or an
// ErrorPart, or when the context passed to Stream is done.
type StreamResult struct {
	Parts      <-chan undrstnd.StreamPart
	Warnings   []undrstnd.CallWarning
	RawRequest []byte
}

// Stream sends call with stream=true. Connection and API errors are returned
// directly; errors while reading arrive as an ErrorPart.
func (m *Model) Stream(ctx context.Context, call *undrstnd.Call) (*StreamResult, error) {
	req, err := m.Prepare(ctx, call)
	if err != nil {
		return nil, err
	}
	var headers map[string]string
	if call != nil {
		headers = call.Headers
	}
	return m.SendStream(ctx, req, headers)
}

// SendStream opens a stream for an already translated request.
func (m *Model) SendStream(ctx context.Context, req *adapter.Request, extraHeaders map[string]string) (*StreamResult, error) {
	start := time.Now()
	req.Body.Stream = true
	body, err := json.Marshal(req.Body)
	if err != nil {
		return nil, fmt.Errorf("chat: marshal request: %w", err)
	}
	m.reportWarnings(req.Warnings)

	ctx, cancel := context.WithCancel(ctx)
	resp, err := m.post(ctx, body, extraHeaders)
	if err != nil {
		cancel()
		m.observe(OutcomeError, start)
		m.logger.Error("stream connect failed", zap.Error(err))
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := m.apiError(resp)
		resp.Body.Close()
		cancel()
		m.observe(OutcomeAPIError, start)
		return nil, apiErr
	}

	parts := make(chan undrstnd.StreamPart, 16)
	go func() {
		defer close(parts)
		defer cancel()
		defer resp.Body.Close()
		outcome := m.readStream(ctx, resp.Body, req, parts)
		m.observe(outcome, start)
	}()
	return &StreamResult{Parts: parts, Warnings: req.Warnings, RawRequest: body}, nil
}

// readStream forwards parsed SSE events until [DONE] or EOF, then emits the finish part.
func (m *Model) readStream(ctx context.Context, body io.Reader, req *adapter.Request, out chan<- undrstnd.StreamPart) string {
	send := func(p undrstnd.StreamPart) bool {
		select {
		case <-ctx.Done():
			return false
		case out <- p:
			return true
		}
	}
	fail := func(err error) string {
		m.logger.Error("stream failed", zap.Error(err))
		send(undrstnd.ErrorPart{Err: err})
		return OutcomeError
	}

	state := adapter.NewStreamState(req)
	reader := bufio.NewReader(body)
	events := 0
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			if ctx.Err() != nil {
				return OutcomeError
			}
			return fail(fmt.Errorf("chat: read stream: %w", err))
		}
		eof := err != nil

		line = bytes.TrimSpace(line)
		if payload, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			payload = bytes.TrimSpace(payload)
			if bytes.Equal(payload, []byte("[DONE]")) {
				break
			}
			parsed, perr := m.adapter.ParseStreamChunk(ctx, state, payload)
			if perr != nil {
				return fail(perr)
			}
			events++
			for _, p := range parsed {
				if !send(p) {
					m.logger.Info("stream cancelled", zap.Int("events", events))
					return OutcomeError
				}
			}
		}
		if eof {
			break
		}
	}

	finish := state.Finish()
	if !send(finish) {
		return OutcomeError
	}
	m.logger.Info("stream completed",
		zap.Int("events", events),
		zap.String("finish_reason", string(finish.FinishReason)),
	)
	return OutcomeOK
}
