// Package wire holds the JSON shapes exchanged with the Undrstnd chat-completion
// endpoint: the request message union, tool and tool_choice fields, request and
// response bodies, stream chunks and the error payload.
//
// Message and UserContent are sealed unions. They marshal with their
// discriminator ("role" and "type") and UnmarshalMessage / Prompt.UnmarshalJSON
// reject unknown discriminators and parts that carry neither text nor image_url.
//
// DecodeError validates an error body against the vendor error schema before
// extracting its message, so malformed bodies surface as ErrSchemaMismatch.
package wire
