// Package undrstnd defines the vendor-neutral request model used to drive the
// Undrstnd chat-completion API: chat messages with multimodal content parts,
// tool definitions, tool-choice policies, call modes and the results and
// warnings returned by a call.
//
// Translation to the vendor wire format lives in package adapter; the wire
// shapes themselves live in package wire.
package undrstnd
