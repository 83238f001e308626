package a2a

/*
Artifact is the output of a task. Once attached to a task it is never
modified again.
*/
type Artifact struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Index       int            `json:"index,omitempty"`
	Append      *bool          `json:"append,omitempty"`
	LastChunk   *bool          `json:"lastChunk,omitempty"`
}

func NewArtifact(parts ...Part) Artifact {
	return Artifact{Parts: append([]Part(nil), parts...)}
}

/*
Text concatenates the text of every part, in order.
*/
func (artifact Artifact) Text() string {
	msg := Message{Parts: artifact.Parts}
	return msg.String()
}

func (artifact Artifact) Copy() Artifact {
	out := artifact
	out.Parts = append([]Part(nil), artifact.Parts...)
	out.Metadata = copyMap(artifact.Metadata)
	return out
}
