package chat

const (
	ChatRoleUser   = "user"      // prompt text
	ChatRoleAgent  = "assistant" // model reply
	ChatRoleSystem = "system"    // GM instructions
)

// ChatMessage is a single message sent to or received from a text model.
// The shape is shared by every chat-completions style provider.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is a provider-neutral text reply.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
	Model   string `json:"model,omitempty"`
}

// NewPrompt builds the message list for a single narration request.
func NewPrompt(system, prompt string) []ChatMessage {
	messages := make([]ChatMessage, 0, 2)
	if system != "" {
		messages = append(messages, ChatMessage{Role: ChatRoleSystem, Content: system})
	}
	return append(messages, ChatMessage{Role: ChatRoleUser, Content: prompt})
}
