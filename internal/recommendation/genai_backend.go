package recommendation

import (
	"context"
	"fmt"
	"strings"

	"bookshelf/internal/entity"
	"bookshelf/internal/envelope"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

const systemPrompt = `You recommend books. Answer with JSON only: an object with a
"recommendations" array whose entries have "title", "author", "reason" and
"confidence" (a number between 0 and 1). Never recommend a book the reader
already has.`

// BookLookup resolves the reader's books so the prompt can name them.
type BookLookup interface {
	GetBooks(ctx context.Context, ids []string) ([]entity.Book, error)
}

// GenAIBackend calls the generative-AI endpoint directly.
type GenAIBackend struct {
	client *genai.Client
	model  string
	books  BookLookup
	logger *zap.Logger
}

type GenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the endpoint, mostly for tests and proxies.
	BaseURL string
}

func NewGenAIBackend(ctx context.Context, cfg GenAIConfig, books BookLookup, logger *zap.Logger) (*GenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GenAIBackend{client: client, model: cfg.Model, books: books, logger: logger}, nil
}

func (b *GenAIBackend) Recommend(ctx context.Context, req Request) ([]entity.Recommendation, error) {
	prompt := b.prompt(ctx, req)

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.4),
	})
	if err != nil {
		return nil, fmt.Errorf("genai generate: %w", err)
	}

	return parseReply(resp.Text())
}

func (b *GenAIBackend) prompt(ctx context.Context, req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommend up to %d books for this request: %s\n", req.Limit, req.Query)

	if b.books == nil || len(req.BookIDs) == 0 {
		return sb.String()
	}
	owned, err := b.books.GetBooks(ctx, req.BookIDs)
	if err != nil {
		b.logger.Warn("resolve reader books failed", zap.Error(err))
		return sb.String()
	}
	if len(owned) > 0 {
		sb.WriteString("The reader already has:\n")
		for _, bk := range owned {
			fmt.Fprintf(&sb, "- %s by %s\n", bk.Title, bk.Author)
		}
	}
	return sb.String()
}

// parseReply accepts the same shapes as the remote API, optionally wrapped in
// a markdown code fence.
func parseReply(text string) ([]entity.Recommendation, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if text == "" {
		return nil, fmt.Errorf("genai reply: %w", envelope.ErrMalformed)
	}

	raw, err := envelope.Unwrap([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("genai reply: %w", err)
	}
	page, err := envelope.Items(raw, "recommendations")
	if err != nil {
		return nil, fmt.Errorf("genai reply: %w", err)
	}
	return envelope.DecodeList(page.Items, entity.Recommendation.Valid), nil
}
