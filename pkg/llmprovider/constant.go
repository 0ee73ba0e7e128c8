package llmprovider

const (
	ProviderDeepSeek = "deepseek"
	ProviderQwen     = "qwen"
	ProviderOpenAI   = "openai"

	// DeepSeekBaseURL is the default DeepSeek API endpoint
	DeepSeekBaseURL = "https://api.deepseek.com/v1"

	// QwenBaseURL is the default Qwen API endpoint
	QwenBaseURL = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"

	// OpenAIBaseURL is the default OpenAI API endpoint
	OpenAIBaseURL = "https://api.openai.com/v1"
)

// defaultBaseURL returns the preset endpoint for a known provider name.
func defaultBaseURL(name string) string {
	switch name {
	case ProviderDeepSeek:
		return DeepSeekBaseURL
	case ProviderQwen, "alibaba":
		return QwenBaseURL
	case ProviderOpenAI:
		return OpenAIBaseURL
	default:
		return ""
	}
}
