// Package classify sends an assembled profile to the classification provider
// (Gemini structured output) and returns its toxicity verdict.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"toxicheck/internal/metrics"
	"toxicheck/internal/model"
)

// Classifier is the classification-provider boundary.
type Classifier interface {
	Classify(ctx context.Context, username string, p model.Profile) (model.Report, error)
}

// Client calls the Gemini generateContent API with a strict response schema.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

func NewClient(apiKey, modelName string, temperature float64) *Client {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &Client{
		baseURL:     "https://generativelanguage.googleapis.com",
		apiKey:      apiKey,
		model:       modelName,
		temperature: temperature,
	}
}

// --- light http indirection (swapped in tests) ---

var httpDo = defaultDo

func defaultDo(req *http.Request) (*http.Response, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	return client.Do(req)
}

// responseSchema constrains the provider's output to the Report shape.
var responseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"toxicityLevel": map[string]any{
			"type":        "INTEGER",
			"description": "A score from 0 (not toxic) to 100 (very toxic)",
		},
		"categories": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"hateSpeech":     map[string]any{"type": "INTEGER", "description": "Level of hate speech or discrimination"},
				"harassment":     map[string]any{"type": "INTEGER", "description": "Level of harassment or bullying"},
				"profanity":      map[string]any{"type": "INTEGER", "description": "Level of profane or offensive language"},
				"misinformation": map[string]any{"type": "INTEGER", "description": "Level of false or misleading information"},
			},
			"required": []string{"hateSpeech", "harassment", "profanity", "misinformation"},
		},
		"toxicTweets": map[string]any{
			"type":        "ARRAY",
			"items":       map[string]any{"type": "STRING"},
			"description": "Up to 3 examples of the most toxic posts",
		},
		"explanation": map[string]any{
			"type":        "STRING",
			"description": "Your detailed explanation/reasoning for the given toxicity assessment",
		},
	},
	"required": []string{"toxicityLevel", "categories", "toxicTweets", "explanation"},
}

type generateRequest struct {
	SystemInstruction content          `json:"systemInstruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   any     `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Classify sends the profile and returns the provider's structured verdict.
// Scores are clamped to [0,100] and example excerpts capped at three; any
// transport or decode failure surfaces as an error for the caller to map to
// the all-zero isError result.
func (c *Client) Classify(ctx context.Context, username string, p model.Profile) (model.Report, error) {
	var report model.Report
	start := time.Now()
	defer func() { metrics.ObserveClassifyDuration(start) }()

	reqBody := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: buildUserPrompt(username, p)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      c.temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return report, err
	}
	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return report, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := httpDo(req)
	if err != nil {
		return report, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return report, fmt.Errorf("classification api status %d", resp.StatusCode)
	}
	var raw generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return report, err
	}
	if len(raw.Candidates) == 0 || len(raw.Candidates[0].Content.Parts) == 0 {
		return report, fmt.Errorf("classification response had no candidates")
	}
	if err := json.Unmarshal([]byte(raw.Candidates[0].Content.Parts[0].Text), &report); err != nil {
		return report, fmt.Errorf("malformed verdict: %w", err)
	}
	normalize(&report)
	return report, nil
}

func normalize(r *model.Report) {
	r.ToxicityLevel = clampScore(r.ToxicityLevel)
	r.Categories.HateSpeech = clampScore(r.Categories.HateSpeech)
	r.Categories.Harassment = clampScore(r.Categories.Harassment)
	r.Categories.Profanity = clampScore(r.Categories.Profanity)
	r.Categories.Misinformation = clampScore(r.Categories.Misinformation)
	if r.ToxicPosts == nil {
		r.ToxicPosts = []string{}
	}
	if len(r.ToxicPosts) > 3 {
		r.ToxicPosts = r.ToxicPosts[:3]
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
