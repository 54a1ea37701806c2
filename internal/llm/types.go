package llm

// Image is binary image data inlined into a completion request.
type Image struct {
	MIMEType string
	Data     []byte
}

// CompletionRequest is a single-turn completion with an optional system
// instruction and inline images.
type CompletionRequest struct {
	SystemInstruction string
	Prompt            string
	Images            []Image
	Params            ChatParams
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// Default is 0.7 if not specified.
	Temperature float32

	// TopP is nucleus sampling. Default is 0.95 if not specified.
	TopP float32
}
