package words

import "time"

type Config struct {
	// API key for the completion endpoint
	APIKey string `envconfig:"IMPOSTOR_ORACLE_API_KEY"`

	// OpenAI-compatible chat completions endpoint
	BaseURL string `envconfig:"IMPOSTOR_ORACLE_BASE_URL" default:"https://api.groq.com/openai/v1"`

	Model string `envconfig:"IMPOSTOR_ORACLE_MODEL" default:"llama-3.3-70b-versatile"`

	Timeout time.Duration `envconfig:"IMPOSTOR_ORACLE_TIMEOUT" default:"30s"`
}
