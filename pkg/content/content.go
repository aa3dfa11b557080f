// Package content assembles and validates multimodal message content for the
// Anthropic Messages protocol as spoken by the Bedrock runtime.
package content

// Kind classifies an attachment as an image or a document.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// Attachment is a caller-supplied file, base64-encoded for transmission.
// Request-scoped and immutable once parsed.
type Attachment struct {
	Kind      Kind   `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"` // base64
	Name      string `json:"name"`
}

// Source is the inline payload of an image or document block on the wire.
type Source struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// Block is one unit of message content: text, image or document, tagged by
// Type. Exactly one of Text or Source is populated.
type Block struct {
	Type   string  `json:"type"` // "text" | "image" | "document"
	Text   string  `json:"text,omitempty"`
	Source *Source `json:"source,omitempty"`
}

// TextBlock builds a text content block.
func TextBlock(text string) Block {
	return Block{Type: "text", Text: text}
}

// ImageBlock builds an inline image block. The data is carried verbatim,
// never re-encoded.
func ImageBlock(mediaType, data string) Block {
	return Block{Type: "image", Source: &Source{Type: "base64", MediaType: mediaType, Data: data}}
}

// DocumentBlock builds an inline document block.
func DocumentBlock(mediaType, data string) Block {
	return Block{Type: "document", Source: &Source{Type: "base64", MediaType: mediaType, Data: data}}
}

// Message is a single chat turn. The gateway is single-turn: one user
// message per request.
type Message struct {
	Role    string  `json:"role"`
	Content []Block `json:"content"`
}

// UserMessage wraps blocks in a user-role message.
func UserMessage(blocks []Block) Message {
	return Message{Role: "user", Content: blocks}
}
