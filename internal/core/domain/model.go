package domain

// User identifies the author of a message or the bot itself.
type User struct {
	ID   string
	Name string
}

// Channel identifies the conversation a message belongs to.
type Channel struct {
	ID   string
	Name string
}

// Guild identifies the larger community a channel belongs to, if any.
// Transports without a guild concept leave the ID empty.
type Guild struct {
	ID   string
	Name string
}

// Message is the boundary type handed in by a transport adapter. The engine
// never looks past these fields.
type Message struct {
	ID      string
	Content string
	Author  User
	Channel Channel
	Guild   Guild
}

type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

type Prompt struct {
	Text string
	Role Role
}

type ModelResponse struct {
	Response         string
	Model            string
	CompletionTokens int
	TotalTokens      int
}
