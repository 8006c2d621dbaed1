// Package gemini calls the Gemini generateContent API to extract structured
// invoice fields from page images.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/hederw/nfs-extrator/internal/model"
)

const (
	defaultBaseURL  = "https://generativelanguage.googleapis.com"
	defaultModel    = "gemini-2.5-flash"
	defaultTimeout  = 90 * time.Second
	maxResponseSize = 50 * 1024 * 1024
)

// Client defines the extraction operations used by the batch runner.
type Client interface {
	ExtractInvoice(ctx context.Context, pngImage []byte, layoutPrompt string) (*model.InvoiceData, error)
	ExtractDetailedInvoice(ctx context.Context, pngImage []byte) (*model.DetailedInvoiceData, error)
}

// Options configures the HTTP client.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type httpClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates a Gemini client. The API key is required; a missing key
// is a startup failure, not a per-task one.
func NewClient(apiKey string, opts Options) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, eris.New("gemini: api key not configured")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &httpClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		model:   opts.Model,
		http:    &http.Client{Timeout: opts.Timeout},
	}, nil
}

// Request/response wire types for generateContent.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *httpClient) ExtractInvoice(ctx context.Context, pngImage []byte, layoutPrompt string) (*model.InvoiceData, error) {
	raw, err := c.generate(ctx, pngImage, basicPromptPrefix+layoutPrompt, basicRequestSchema)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(compiledBasicSchema, raw); err != nil {
		return nil, err
	}

	var data model.InvoiceData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, eris.New(friendlyJSONError)
	}
	return &data, nil
}

func (c *httpClient) ExtractDetailedInvoice(ctx context.Context, pngImage []byte) (*model.DetailedInvoiceData, error) {
	raw, err := c.generate(ctx, pngImage, detailedPrompt, detailedRequestSchema)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(compiledDetailedSchema, raw); err != nil {
		return nil, err
	}

	var data model.DetailedInvoiceData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, eris.New(friendlyJSONError)
	}
	return &data, nil
}

// generate posts the image and instruction, returning the model's JSON text.
func (c *httpClient) generate(ctx context.Context, pngImage []byte, prompt string, schema map[string]any) ([]byte, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: "image/png",
					Data:     base64.StdEncoding.EncodeToString(pngImage),
				}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: marshal request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.New(friendlyError(err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: read response")
	}

	zap.L().Debug("gemini: generateContent",
		zap.String("model", c.model),
		zap.Int("status", resp.StatusCode),
		zap.Int("image_bytes", len(pngImage)),
		zap.Duration("elapsed", time.Since(start)),
	)

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.New(friendlyError(fmt.Sprintf("HTTP %d", resp.StatusCode)))
	}
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			msg = "429 RESOURCE_EXHAUSTED"
		}
		return nil, eris.New(friendlyError(msg))
	}

	text := responseText(parsed)
	if strings.TrimSpace(text) == "" {
		return nil, eris.New("A IA retornou uma resposta de texto vazia ou inválida.")
	}
	return []byte(strings.TrimSpace(text)), nil
}

func responseText(resp generateResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// The validation schemas are fixed, so they are compiled once at init.
var (
	compiledBasicSchema    = mustCompileSchema(basicValidationSchema)
	compiledDetailedSchema = mustCompileSchema(detailedValidationSchema)
)

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	raw, err := json.Marshal(schemaMap)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		panic(err)
	}
	return schema
}

// validatePayload checks the model's JSON against the declared schema. A
// schema violation is a recoverable per-task error.
func validatePayload(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return eris.New(friendlyJSONError)
	}
	if err := schema.Validate(v); err != nil {
		return eris.New("Resposta da IA está incompleta ou mal formatada.")
	}
	return nil
}

const friendlyJSONError = "A IA retornou um formato inesperado. Por favor, verifique o prompt ou tente novamente."

// friendlyError maps raw transport/API failures onto the user-facing strings
// shown inline on failed records.
func friendlyError(msg string) string {
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return "Limite de requisições da API atingido. Por favor, aguarde um momento e tente novamente."
	case strings.Contains(strings.ToLower(msg), "json"):
		return friendlyJSONError
	default:
		return "Falha na comunicação com a IA: " + msg
	}
}
