package vertexai

import "encoding/json"

// Content is a multi-part message exchanged with the model.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single unit of content. Exactly one field should be set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	InlineData       *Blob             `json:"inlineData,omitempty"`
	FileData         *FileData         `json:"fileData,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// TextPart builds a text-only part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// Blob carries raw media bytes as base64 with their MIME type.
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// FileData references media stored in Cloud Storage.
type FileData struct {
	MimeType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

// FunctionCall is a request from the model to invoke a declared function.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse carries the result of an executed function call back
// to the model.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Tool groups function declarations the model may call.
type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// FunctionDeclaration describes a callable function with a JSON Schema
// parameter definition.
type FunctionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// FunctionCallingMode controls how the model is allowed to call functions.
type FunctionCallingMode string

const (
	FunctionCallingAuto FunctionCallingMode = "AUTO"
	FunctionCallingAny  FunctionCallingMode = "ANY"
	FunctionCallingNone FunctionCallingMode = "NONE"
)

// ToolConfig applies to all tools provided in a request.
type ToolConfig struct {
	FunctionCallingConfig *FunctionCallingConfig `json:"functionCallingConfig,omitempty"`
}

// FunctionCallingConfig restricts which functions the model may call.
type FunctionCallingConfig struct {
	Mode                 FunctionCallingMode `json:"mode,omitempty"`
	AllowedFunctionNames []string            `json:"allowedFunctionNames,omitempty"`
}

// GenerationConfig holds model sampling parameters.
type GenerationConfig struct {
	Temperature      *float32 `json:"temperature,omitempty"`
	TopP             *float32 `json:"topP,omitempty"`
	TopK             *float32 `json:"topK,omitempty"`
	CandidateCount   *int32   `json:"candidateCount,omitempty"`
	MaxOutputTokens  *int32   `json:"maxOutputTokens,omitempty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

// HarmCategory identifies a class of potentially harmful content.
type HarmCategory string

const (
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
)

// HarmBlockThreshold sets the blocking sensitivity for a harm category.
type HarmBlockThreshold string

const (
	HarmBlockLowAndAbove    HarmBlockThreshold = "BLOCK_LOW_AND_ABOVE"
	HarmBlockMediumAndAbove HarmBlockThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	HarmBlockOnlyHigh       HarmBlockThreshold = "BLOCK_ONLY_HIGH"
	HarmBlockNone           HarmBlockThreshold = "BLOCK_NONE"
)

// SafetySetting overrides the default blocking threshold for one category.
type SafetySetting struct {
	Category  HarmCategory       `json:"category"`
	Threshold HarmBlockThreshold `json:"threshold"`
}

// SafetyRating is the model's harm assessment for one category.
type SafetyRating struct {
	Category    HarmCategory `json:"category"`
	Probability string       `json:"probability"`
	Blocked     bool         `json:"blocked,omitempty"`
}

// GenerateContentRequest is the request body for generateContent and
// streamGenerateContent.
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	ToolConfig        *ToolConfig       `json:"toolConfig,omitempty"`
	SafetySettings    []SafetySetting   `json:"safetySettings,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerateContentResponse is a unary response, or a single chunk of a
// streamed response.
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
}

// Text returns the text of the first candidate, or "" if there is none.
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, part := range r.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}

// FunctionCalls returns all function calls requested by the first candidate.
func (r *GenerateContentResponse) FunctionCalls() []FunctionCall {
	if len(r.Candidates) == 0 {
		return nil
	}
	var calls []FunctionCall
	for _, part := range r.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, *part.FunctionCall)
		}
	}
	return calls
}

// Candidate is one generated response variant.
type Candidate struct {
	Content       Content        `json:"content"`
	FinishReason  string         `json:"finishReason,omitempty"`
	FinishMessage string         `json:"finishMessage,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
	Index         int32          `json:"index,omitempty"`
}

// PromptFeedback reports why a prompt was blocked, if it was.
type PromptFeedback struct {
	BlockReason        string         `json:"blockReason,omitempty"`
	BlockReasonMessage string         `json:"blockReasonMessage,omitempty"`
	SafetyRatings      []SafetyRating `json:"safetyRatings,omitempty"`
}

// UsageMetadata reports token accounting for a request.
type UsageMetadata struct {
	PromptTokenCount     int32 `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int32 `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int32 `json:"totalTokenCount,omitempty"`
}

// CountTokensRequest is the request body for countTokens.
type CountTokensRequest struct {
	Contents []Content `json:"contents"`
}

// CountTokensResponse is the response body for countTokens.
type CountTokensResponse struct {
	TotalTokens             int32 `json:"totalTokens"`
	TotalBillableCharacters int32 `json:"totalBillableCharacters,omitempty"`
}

// ModelParams configures a GenerativeModel instance.
type ModelParams struct {
	Model             string
	GenerationConfig  *GenerationConfig
	SafetySettings    []SafetySetting
	Tools             []Tool
	ToolConfig        *ToolConfig
	SystemInstruction *Content
}
