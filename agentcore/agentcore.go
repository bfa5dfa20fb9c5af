// Package agentcore implements [relay.Runtime] for a hosted agent runtime
// reached over plain HTTP. The runtime answers either with a single JSON
// result envelope or with a server-sent-event-like stream: newline-delimited
// text where event-bearing lines match `data: <JSON-or-scalar>`.
//
// Recognized payload shapes:
//
//	{"data": "<text>"}
//	{"event": {"contentBlockDelta": {"delta": {"text": "<text>"}}}}
//	{"event": {"contentBlockStart": {"start": {"toolUse": {"name": "<tool>"}}}}}
//
// Bare quoted scalars and anything else are dropped. Leniency is deliberate:
// a malformed line never aborts the turn.
package agentcore

const (
	defaultBaseURLFormat = "https://bedrock-agentcore.%s.amazonaws.com"
	invocationQualifier  = "DEFAULT"
	sessionHeader        = "X-Amzn-Bedrock-AgentCore-Runtime-Session-Id"

	// dataPrefix marks event-bearing lines. Lines without it are not part
	// of the event stream and are discarded silently.
	dataPrefix = "data: "

	// unknownToolName is reported when a tool-use block carries no name.
	unknownToolName = "unknown"

	// maxErrorBody bounds how much of a non-success response body is
	// echoed into the returned error.
	maxErrorBody = 500
)

// envelope is one decoded stream payload. Data stays untyped because only
// string-valued "data" fields count as text; the runtime also emits
// structured lifecycle objects under the same key.
type envelope struct {
	Data  any            `json:"data"`
	Event *envelopeEvent `json:"event"`
}

type envelopeEvent struct {
	ContentBlockStart *contentBlockStart `json:"contentBlockStart"`
	ContentBlockDelta *contentBlockDelta `json:"contentBlockDelta"`
}

type contentBlockStart struct {
	Start blockStart `json:"start"`
}

type blockStart struct {
	ToolUse *toolUse `json:"toolUse"`
}

type toolUse struct {
	Name string `json:"name"`
}

type contentBlockDelta struct {
	Delta blockDelta `json:"delta"`
}

type blockDelta struct {
	Text string `json:"text"`
}

// syncResult is the non-streaming response envelope.
type syncResult struct {
	Result struct {
		Content []syncContent `json:"content"`
	} `json:"result"`
}

type syncContent struct {
	Text *string `json:"text"`
}
