package types

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a single message in a session.
type ConversationTurn struct {
	Role    Role   `json:"role" validate:"oneof=user assistant"`
	Content string `json:"content" validate:"max=20000"`
}

// History is the ordered, caller-owned sequence of turns in a session.
type History []ConversationTurn

// Window returns the last n turns, oldest first. The receiver is not modified.
func (h History) Window(n int) History {
	if n <= 0 {
		return nil
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Append returns a new history with a user question and the assistant reply
// added. The receiver's backing array is never written.
func (h History) Append(question, answer string) History {
	out := make(History, 0, len(h)+2)
	out = append(out, h...)
	return append(out,
		ConversationTurn{Role: RoleUser, Content: question},
		ConversationTurn{Role: RoleAssistant, Content: answer},
	)
}
