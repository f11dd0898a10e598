package llm

// vendor describes one hosted provider: where its key usually lives, the
// model used when none is configured, and short aliases for model IDs.
type vendor struct {
	name         string
	keyEnv       string
	defaultModel string
	baseURL      string
	aliases      map[string]string
}

// vendors is in discovery order. Gemini comes first because it can judge
// recordings without a transcriber.
var vendors = []vendor{
	{
		name:         "gemini",
		keyEnv:       "GEMINI_API_KEY",
		defaultModel: "gemini-2.5-flash",
		aliases: map[string]string{
			"gemini-flash":      "gemini-2.5-flash",
			"gemini-flash-lite": "gemini-2.5-flash-lite",
			"gemini-pro":        "gemini-2.5-pro",
		},
	},
	{
		name:         "openai",
		keyEnv:       "OPENAI_API_KEY",
		defaultModel: "gpt-4o-mini",
		aliases: map[string]string{
			"gpt-mini": "gpt-4.1-mini",
		},
	},
	{
		name:         "anthropic",
		keyEnv:       "ANTHROPIC_API_KEY",
		defaultModel: "claude-haiku-4-5-20251001",
		aliases: map[string]string{
			"claude-sonnet": "claude-sonnet-4-20250514",
			"claude-haiku":  "claude-haiku-4-5-20251001",
		},
	},
	{
		// OpenAI-compatible; served by OpenAIProvider.
		name:         "openrouter",
		keyEnv:       "OPENROUTER_API_KEY",
		defaultModel: "google/gemini-2.5-flash",
		baseURL:      "https://openrouter.ai/api/v1",
	},
}

func lookupVendor(name string) (vendor, bool) {
	for _, v := range vendors {
		if v.name == name {
			return v, true
		}
	}
	return vendor{}, false
}

// model expands an alias. Unknown names pass through as model IDs; an empty
// name selects the default.
func (v vendor) model(name string) string {
	if name == "" {
		return v.defaultModel
	}
	if id, ok := v.aliases[name]; ok {
		return id
	}
	return name
}
