package relay

// Event is a sealed interface representing a streaming event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta represents a fragment of assistant-generated text.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// EventToolUse signals that the remote agent began invoking a named
// external tool. It carries no result; tool execution happens on the
// runtime side and only the notice reaches the client.
type EventToolUse struct {
	Name string
}

func (EventToolUse) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventToolUse{}
)
