package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veracityhq/claimcheck/internal/model"
)

// OpenAIProvider backs the embedding and entailment capabilities with the
// OpenAI API (or any compatible endpoint via base_url)
type OpenAIProvider struct {
	client          *openai.Client
	embeddingModel  string
	entailmentModel string
}

// NewOpenAIProvider creates an OpenAI-backed provider
func NewOpenAIProvider(cfg model.MLConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}
	entailmentModel := cfg.EntailmentModel
	if entailmentModel == "" {
		entailmentModel = openai.GPT4oMini
	}

	return &OpenAIProvider{
		client:          openai.NewClientWithConfig(clientConfig),
		embeddingModel:  embeddingModel,
		entailmentModel: entailmentModel,
	}, nil
}

// Embed returns one embedding vector per input text
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

const entailmentPrompt = `You are a natural language inference classifier.
Given a claim and an evidence passage, decide whether the passage supports the
claim, contradicts it, or is unclear.

Claim: %s

Passage: %s

Respond with ONLY a JSON object of the form
{"label": "supported"|"contradicted"|"unclear", "confidence": 0.0-1.0}`

type entailmentReply struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify runs a chat-based NLI judgment for one (claim, passage) pair
func (p *OpenAIProvider) Classify(ctx context.Context, claim, passage string) (model.Label, float64, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.entailmentModel,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(entailmentPrompt, claim, passage),
			},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("entailment completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("entailment: no response choices")
	}

	return parseEntailmentReply(resp.Choices[0].Message.Content)
}

var jsonObjectRe = regexp.MustCompile(`\{[^{}]*\}`)

// parseEntailmentReply extracts the label/confidence JSON from a model reply,
// tolerating surrounding prose or code fences
func parseEntailmentReply(content string) (model.Label, float64, error) {
	raw := strings.TrimSpace(content)
	if !strings.HasPrefix(raw, "{") {
		if m := jsonObjectRe.FindString(raw); m != "" {
			raw = m
		}
	}

	var reply entailmentReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return "", 0, fmt.Errorf("parse entailment reply: %w", err)
	}

	label := model.Label(strings.ToLower(strings.TrimSpace(reply.Label)))
	switch label {
	case model.LabelSupported, model.LabelContradicted, model.LabelUnclear:
	default:
		return "", 0, fmt.Errorf("parse entailment reply: unknown label %q", reply.Label)
	}

	conf := reply.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	return label, conf, nil
}
