package model

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - Registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen inside Eino state handlers or compose.ProcessState.
//   - Do not touch AppState from outside handlers; the conversation session
//     is reached through the MessagesManager.
type AppState struct {
	ConversationID string
	Message        string
	Analysis       *Analysis // set once the analyzer (or precomputed path) ran
	Precomputed    bool      // analysis came from the caller, not the classifier
	CacheExhausted bool      // selector had to repeat a recently used template
}

// QueryInput represents one incoming chat message.
type QueryInput struct {
	ConversationID string    `json:"conversation_id"`
	Message        string    `json:"message"`
	Analysis       *Analysis `json:"analysis,omitempty"`
}
