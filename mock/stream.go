package mock

import (
	"io"
	"strings"

	"github.com/relay-chat/relay"
)

// Interface compliance checks.
var (
	_ relay.Stream = (*Stream)(nil)
	_ relay.Stream = (*ScriptedStream)(nil)
)

// Stream is a test double for relay.Stream.
// Set the function fields for the methods you need. NextFn and ReplyFn
// panic when nil to catch missing setup. CloseFn and StateFn are nil-safe
// (no-op and zero value) because test code commonly calls defer stream.Close()
// and these methods rarely need custom behavior.
type Stream struct {
	NextFn  func() (relay.Event, error)
	StateFn func() relay.StreamState
	ReplyFn func() (string, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (relay.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() relay.StreamState {
	if s.StateFn == nil {
		return relay.StreamStateNew
	}
	return s.StateFn()
}

// Reply delegates to ReplyFn.
func (s *Stream) Reply() (string, error) {
	return s.ReplyFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// ScriptedStream replays a fixed event sequence and then either ends the
// stream or fails with Err. It accumulates text deltas like a real stream.
type ScriptedStream struct {
	Events []relay.Event
	Err    error // returned after Events are exhausted; nil means io.EOF

	pos   int
	state relay.StreamState
	reply strings.Builder
}

// Next returns the next scripted event.
func (s *ScriptedStream) Next() (relay.Event, error) {
	switch s.state {
	case relay.StreamStateComplete:
		return nil, io.EOF
	case relay.StreamStateError:
		return nil, s.Err
	case relay.StreamStateClosed:
		return nil, relay.ErrStreamClosed
	}
	s.state = relay.StreamStateStreaming

	if s.pos >= len(s.Events) {
		if s.Err != nil {
			s.state = relay.StreamStateError
			return nil, s.Err
		}
		s.state = relay.StreamStateComplete
		return nil, io.EOF
	}

	evt := s.Events[s.pos]
	s.pos++
	if td, ok := evt.(relay.EventTextDelta); ok {
		s.reply.WriteString(td.Delta)
	}
	return evt, nil
}

// State returns the current scripted state.
func (s *ScriptedStream) State() relay.StreamState {
	return s.state
}

// Reply returns the text accumulated from scripted deltas.
func (s *ScriptedStream) Reply() (string, error) {
	if s.state == relay.StreamStateNew {
		return "", relay.ErrStreamNotReady
	}
	return s.reply.String(), nil
}

// Close marks the stream closed unless it already reached a terminal state.
func (s *ScriptedStream) Close() error {
	if s.state != relay.StreamStateComplete && s.state != relay.StreamStateError {
		s.state = relay.StreamStateClosed
	}
	return nil
}
