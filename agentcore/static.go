package agentcore

import (
	"fmt"
	"io"

	"github.com/relay-chat/relay"
)

// staticStream adapts a complete, non-streaming reply to [relay.Stream]:
// one text delta, then EOF. The runtime answers this way when it buffers
// the whole turn instead of streaming it.
type staticStream struct {
	text  string
	state relay.StreamState
}

// Interface compliance check.
var _ relay.Stream = (*staticStream)(nil)

func newStaticStream(text string) *staticStream {
	return &staticStream{text: text, state: relay.StreamStateNew}
}

func (s *staticStream) Next() (relay.Event, error) {
	switch s.state {
	case relay.StreamStateNew:
		s.state = relay.StreamStateStreaming
		if s.text == "" {
			s.state = relay.StreamStateComplete
			return nil, io.EOF
		}
		return relay.EventTextDelta{Delta: s.text}, nil
	case relay.StreamStateStreaming:
		s.state = relay.StreamStateComplete
		return nil, io.EOF
	case relay.StreamStateClosed:
		return nil, fmt.Errorf("agentcore: %w", relay.ErrStreamClosed)
	default:
		return nil, io.EOF
	}
}

func (s *staticStream) State() relay.StreamState {
	return s.state
}

func (s *staticStream) Reply() (string, error) {
	if s.state == relay.StreamStateNew {
		return "", fmt.Errorf("agentcore: %w", relay.ErrStreamNotReady)
	}
	return s.text, nil
}

func (s *staticStream) Close() error {
	if s.state != relay.StreamStateComplete {
		s.state = relay.StreamStateClosed
	}
	return nil
}
