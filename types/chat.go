package types

const (
	TypeWebsocketPing       = "ping"
	TypeWebsocketPong       = "pong"
	TypeWebsocketChat       = "chat"
	TypeWebsocketProcessing = "processing"
	TypeWebsocketError      = "error"
)

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the chat surface contract. It is always well-formed:
// failures inside the pipeline degrade to a fixed apology with
// context_used=false and empty suggestions, they never surface as errors.
type ChatResponse struct {
	Response    string   `json:"response"`
	ContextUsed bool     `json:"context_used"`
	Suggestions []string `json:"suggestions"`
}

type IndexRecordRequest struct {
	Kind RecordKind     `json:"kind"`
	Data map[string]any `json:"data"`
}

type WebsocketRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type WebsocketChatPayload struct {
	Message string `json:"message"`
}

type WebsocketResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type DataResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
