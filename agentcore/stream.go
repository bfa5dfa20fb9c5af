package agentcore

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/relay-chat/relay"
)

// stream implements [relay.Stream] by decoding `data: ` lines from an HTTP
// response body. The decoder is a flat per-line classifier: it holds no mode
// between lines, so events come out in exactly the order lines arrive.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	state   relay.StreamState
	reply   strings.Builder
	err     error // terminal error, if any
}

// Interface compliance check.
var _ relay.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{
		body:    body,
		scanner: bufio.NewScanner(body),
		ctx:     ctx,
		state:   relay.StreamStateNew,
	}
}

// Next reads lines until one classifies as a semantic event. Returns io.EOF
// when the underlying transport stream ends.
func (s *stream) Next() (relay.Event, error) {
	switch s.state {
	case relay.StreamStateComplete:
		return nil, io.EOF
	case relay.StreamStateError:
		return nil, s.err
	case relay.StreamStateClosed:
		return nil, fmt.Errorf("agentcore: %w", relay.ErrStreamClosed)
	}

	for s.scanner.Scan() {
		s.state = relay.StreamStateStreaming

		evt, ok := decodeLine(s.scanner.Text())
		if !ok {
			continue
		}
		if td, isText := evt.(relay.EventTextDelta); isText {
			s.reply.WriteString(td.Delta)
		}
		return evt, nil
	}

	if err := s.scanner.Err(); err != nil {
		s.state = relay.StreamStateError
		if s.ctx.Err() != nil {
			s.err = s.ctx.Err()
		} else {
			s.err = fmt.Errorf("agentcore: read stream: %w", err)
		}
		return nil, s.err
	}

	s.state = relay.StreamStateComplete
	return nil, io.EOF
}

// State returns the current stream state.
func (s *stream) State() relay.StreamState {
	return s.state
}

// Reply returns the text accumulated so far.
func (s *stream) Reply() (string, error) {
	if s.state == relay.StreamStateNew {
		return "", fmt.Errorf("agentcore: %w", relay.ErrStreamNotReady)
	}
	return s.reply.String(), nil
}

// Close closes the underlying HTTP response body. Closing mid-stream leaves
// the reply partial; closing after a terminal state keeps that state.
func (s *stream) Close() error {
	if s.state != relay.StreamStateComplete && s.state != relay.StreamStateError {
		s.state = relay.StreamStateClosed
	}
	return s.body.Close()
}

// decodeLine classifies one raw line. It returns ok=false for everything
// that produces no event: empty lines, lines without the data prefix, bare
// quoted scalars, malformed JSON, unrecognized shapes, and empty text
// deltas. Classification priority is tool-use, then the top-level "data"
// string, then the nested content-block delta; both text shapes are legal
// and both are checked on every line.
func decodeLine(line string) (relay.Event, bool) {
	if line == "" {
		return nil, false
	}
	payload, found := strings.CutPrefix(line, dataPrefix)
	if !found {
		return nil, false
	}

	// Bare scalar lines are framing artifacts of the upstream format, never
	// content. They must be filtered before JSON parsing: a quoted string is
	// valid JSON and would otherwise be classified.
	if payload == "" || payload[0] == '"' || payload[0] == '\'' {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, false
	}

	if env.Event != nil && env.Event.ContentBlockStart != nil {
		if tu := env.Event.ContentBlockStart.Start.ToolUse; tu != nil {
			name := tu.Name
			if name == "" {
				name = unknownToolName
			}
			return relay.EventToolUse{Name: name}, true
		}
	}

	if text, isString := env.Data.(string); isString {
		return relay.EventTextDelta{Delta: text}, true
	}

	if env.Event != nil && env.Event.ContentBlockDelta != nil {
		if text := env.Event.ContentBlockDelta.Delta.Text; text != "" {
			return relay.EventTextDelta{Delta: text}, true
		}
	}

	return nil, false
}
