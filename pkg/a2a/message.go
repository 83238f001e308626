package a2a

import "strings"

/*
Message represents all non‑artifact communication between client & agent.
*/
type Message struct {
	Role     string         `json:"role"` // "user" or "agent"
	Parts    []Part         `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func NewTextMessage(role string, text string) *Message {
	return &Message{
		Role: role,
		Parts: []Part{
			{Type: PartTypeText, Text: text},
		},
	}
}

/*
Query joins the text parts of the message with newlines. Parts of any other
type are skipped, so a message carrying only files or data yields "".
*/
func (msg *Message) Query() string {
	texts := make([]string, 0, len(msg.Parts))

	for _, part := range msg.Parts {
		if part.Type == PartTypeText || (part.Type == "" && part.Text != "") {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "\n")
}

func (msg *Message) String() string {
	var sb strings.Builder

	for _, part := range msg.Parts {
		sb.WriteString(part.Text)
	}

	return sb.String()
}

func (msg *Message) Copy() *Message {
	if msg == nil {
		return nil
	}

	out := *msg
	out.Parts = append([]Part(nil), msg.Parts...)
	out.Metadata = copyMap(msg.Metadata)

	return &out
}

func copyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}

	out := make(map[string]any, len(in))

	for k, v := range in {
		out[k] = v
	}

	return out
}
