package provider

import "context"

/*
Message is one turn of a chat completion request.
*/
type Message struct {
	Role    string
	Content string
}

/*
Schema asks the model for a JSON document matching a JSON schema instead of
free text.
*/
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Interface interface {
	Complete(ctx context.Context, messages []Message, schema *Schema) (string, error)
}

func System(content string) Message {
	return Message{Role: "system", Content: content}
}

func User(content string) Message {
	return Message{Role: "user", Content: content}
}
