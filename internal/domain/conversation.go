package domain

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one entry in a conversation's ordered history. The orchestrator
// owns the sequence for the duration of a single exchange and hands it back
// to the caller afterwards; there is no cross-session persistence.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ValidTurnRole reports whether r is a role the chat surface accepts from
// callers. Tool and system turns are produced internally only.
func ValidTurnRole(r Role) bool {
	return r == RoleUser || r == RoleAssistant
}
