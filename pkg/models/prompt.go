package models

import "encoding/json"

// ContentBlock is one element of a structured prompt message
type ContentBlock struct {
	Type   string       `json:"type"` // "image" or "text"
	Source *ImageSource `json:"source,omitempty"`
	Text   string       `json:"text,omitempty"`
}

// ImageSource carries an inline base64 image
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// NewImageBlock creates an image block from base64 data
func NewImageBlock(mediaType, data string) ContentBlock {
	return ContentBlock{
		Type: "image",
		Source: &ImageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      data,
		},
	}
}

// NewTextBlock creates a text block
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// PromptMessage is one turn of the Claude Messages API.
// Content is sent as a plain string unless Blocks is set.
type PromptMessage struct {
	Role   string
	Text   string
	Blocks []ContentBlock
}

// IsStructured reports whether the message carries content blocks
func (m PromptMessage) IsStructured() bool {
	return len(m.Blocks) > 0
}

// MarshalJSON encodes content as either a string or a block list
func (m PromptMessage) MarshalJSON() ([]byte, error) {
	type wire struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}
	if m.IsStructured() {
		return json.Marshal(wire{Role: m.Role, Content: m.Blocks})
	}
	return json.Marshal(wire{Role: m.Role, Content: m.Text})
}

// Usage holds token counts reported by the model provider
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ModelResult is the generated text and its usage
type ModelResult struct {
	Text  string
	Usage Usage
}
