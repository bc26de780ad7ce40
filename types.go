package chatclient

import "encoding/json"

// User is the account representation returned by register, login, and
// introspection responses.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// RegisterRequest defines a public type used by chatclient APIs.
//
// RegisterRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// CitationDocument identifies the source document of a citation.
type CitationDocument struct {
	DocID string `json:"doc_id"`
	Name  string `json:"name"`
}

// CitationLocation pins a citation inside its document.
type CitationLocation struct {
	PageLabel    string `json:"page_label"`
	PagePhysical int    `json:"page_physical"`
	Chapter      string `json:"chapter"`
	Subheading   string `json:"subheading"`
}

// Citation is one structured source reference attached to an answer.
type Citation struct {
	ID       string           `json:"id"`
	Document CitationDocument `json:"document"`
	Location CitationLocation `json:"location"`
	ChunkID  string           `json:"chunk_id"`
	Source   string           `json:"source"`
	Raw      json.RawMessage  `json:"raw,omitempty"`
}

// Answer is the outcome of one ask round-trip.
type Answer struct {
	Query     string     `json:"query"`
	ThreadID  string     `json:"thread_id"`
	Response  string     `json:"response"`
	Citations []Citation `json:"citations"`
}

// ThreadSummary describes one conversation in the thread list.
type ThreadSummary struct {
	ThreadID  string `json:"thread_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Message is one stored turn of a conversation.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt string     `json:"created_at"`
}
