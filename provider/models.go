package provider

// ModelID names a chat model. Any string is accepted; the constants are the documented ones.
type ModelID = string

// Documented chat models.
const (
	// premier
	Ministral3B        ModelID = "ministral-3b-latest"
	Ministral8B        ModelID = "ministral-8b-latest"
	MistralLargeLatest ModelID = "mistral-large-latest"
	MistralSmallLatest ModelID = "mistral-small-latest"
	// free
	Pixtral12B ModelID = "pixtral-12b-2409"
	// legacy
	OpenMistral7B    ModelID = "open-mistral-7b"
	OpenMixtral8x7B  ModelID = "open-mixtral-8x7b"
	OpenMixtral8x22B ModelID = "open-mixtral-8x22b"
)

// ChatSettings are per-model settings.
type ChatSettings struct {
	// SafePrompt injects the API safety prompt before all conversations.
	SafePrompt bool
}
