// Package adapter translates vendor-neutral undrstnd calls into Undrstnd
// chat-completion request bodies and parses responses and stream chunks back.
//
// Everything here is pure: no I/O, no logging, no shared state. The chat
// package performs the HTTP exchange around it.
//
// Tool choice mapping is lossy by necessity. The API only knows "auto",
// "none" and "any", so ToolChoiceRequired becomes "any" and
// ToolChoiceTool{name} narrows the tool list to that single tool and sends
// "any". Provider-defined tools are dropped with an UnsupportedToolWarning.
package adapter
