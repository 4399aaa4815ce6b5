package suggest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	DefaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel    = "meta-llama/llama-4-scout-17b-16e-instruct"

	maxTokens    = 300
	maxBodyBytes = 20 << 20
)

const vendorPrompt = `You are a sharp, stylish flea market vendor with a great eye for detail. Analyze this specific item and return ONLY a JSON object:
{
  "name": "3-5 words, specific and evocative. Describe THIS item, not just the category. Focus on what makes it distinct: color, era, detail, material. Never just say the category name alone (e.g. not 'Vintage Denim Jeans' but 'Faded Indigo Straight Leg')",
  "description": "2-3 sentences with genuine character. Describe exactly what you see: specific details like wash, hardware, stitching, wear patterns, fit, era. Write like you're telling a friend why this piece is worth picking up. Avoid generic filler phrases.",
  "suggested_size": "size if clothing or wearable (e.g. S, M, L, XL, 32x30), otherwise null"
}
No explanation, no markdown, just the JSON object.`

// Handler proxies item photos to a vision chat-completions endpoint and
// returns the suggested catalog text. One upstream request per call.
type Handler struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

func NewHandler(apiKey string) *Handler {
	return &Handler{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		model:    DefaultModel,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetEndpoint points the handler at a different completions URL.
func (h *Handler) SetEndpoint(u string) {
	if u != "" {
		h.endpoint = u
	}
}

func (h *Handler) SetModel(m string) {
	if m != "" {
		h.model = m
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Options("/suggest", h.preflight)
	r.Post("/suggest", h.suggest)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

func (h *Handler) preflight(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ImageBase64 == "" || req.MediaType == "" {
		writeError(w, http.StatusBadRequest, "imageBase64 and mediaType are required")
		return
	}
	if h.apiKey == "" {
		writeError(w, http.StatusInternalServerError, "GROQ_API_KEY not configured")
		return
	}

	content, err := h.complete(r, req)
	if err != nil {
		log.Printf("suggest: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("unparseable suggestion: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format"`
	Messages       []chatMessage     `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends the photo upstream and returns the raw message content.
func (h *Handler) complete(r *http.Request, req Request) (string, error) {
	payload := chatRequest{
		Model:          h.model,
		MaxTokens:      maxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: vendorPrompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", req.MediaType, req.ImageBase64),
				}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal upstream request: %w", err)
	}

	upReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build upstream request: %w", err)
	}
	upReq.Header.Set("Content-Type", "application/json")
	upReq.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(upReq)
	if err != nil {
		return "", fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq api error: %s", strings.TrimSpace(string(text)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode upstream response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", errors.New("no content returned from groq")
	}
	return cr.Choices[0].Message.Content, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("suggest: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
