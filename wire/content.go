package wire

import (
	"encoding/json"
	"fmt"
)

// UserContent is a sealed interface over TextContent and ImageURLContent.
type UserContent interface {
	ContentType() string
	isUserContent()
}

// TextContent is a text part of a user message.
type TextContent struct {
	Text string `json:"text"`
}

// ImageURLContent is an image part of a user message; ImageURL may be a data URL.
type ImageURLContent struct {
	ImageURL string `json:"image_url"`
}

func (TextContent) ContentType() string     { return ContentTypeText }
func (ImageURLContent) ContentType() string { return ContentTypeImageURL }

func (TextContent) isUserContent()     {}
func (ImageURLContent) isUserContent() {}

// MarshalJSON adds the type discriminator.
func (c TextContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{ContentTypeText, c.Text})
}

// MarshalJSON adds the type discriminator.
func (c ImageURLContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		ImageURL string `json:"image_url"`
	}{ContentTypeImageURL, c.ImageURL})
}

// UnmarshalUserContent decodes one user content part, dispatching on "type".
func UnmarshalUserContent(data []byte) (UserContent, error) {
	var part struct {
		Type     string  `json:"type"`
		Text     *string `json:"text"`
		ImageURL *string `json:"image_url"`
	}
	if err := json.Unmarshal(data, &part); err != nil {
		return nil, err
	}
	switch part.Type {
	case ContentTypeText:
		if part.Text == nil {
			return nil, fmt.Errorf("%w: text", ErrMissingField)
		}
		return TextContent{Text: *part.Text}, nil
	case ContentTypeImageURL:
		if part.ImageURL == nil {
			return nil, fmt.Errorf("%w: image_url", ErrMissingField)
		}
		return ImageURLContent{ImageURL: *part.ImageURL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, part.Type)
	}
}
