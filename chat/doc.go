// Package chat is the HTTP boundary of an Undrstnd chat model: it translates a
// call with package adapter, POSTs it to {BaseURL}/chat/completions with
// retries, and turns the reply into a GenerateResult or a stream of parts.
//
// Non-2xx replies become *APICallError. When the body matches the vendor error
// schema its message is used verbatim, otherwise the HTTP status text is.
package chat
