package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ProviderConfig holds configuration for an OpenAI-compatible provider.
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

// LLMProvider talks to any OpenAI-compatible chat completions endpoint.
type LLMProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewLLMProvider creates a provider. Known names fill in the endpoint
// and default model.
func NewLLMProvider(name, apiKey string) *LLMProvider {
	cfg := ProviderConfig{Name: name, APIKey: apiKey}
	switch name {
	case "openai":
		cfg.BaseURL = "https://api.openai.com/v1/chat/completions"
		cfg.Model = "gpt-4o-mini"
	case "groq":
		cfg.BaseURL = "https://api.groq.com/openai/v1/chat/completions"
		cfg.Model = "llama-3.3-70b-versatile"
	}
	return &LLMProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *LLMProvider) Name() string {
	return p.config.Name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// sendRequest handles HTTP requests to the provider
func (p *LLMProvider) sendRequest(reqBody chatRequest, operation string) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", p.config.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[%s.%s] Response status: %d", p.config.Name, operation, resp.StatusCode)

	if resp.StatusCode != 200 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func (p *LLMProvider) Summarize(title, content string) (string, error) {
	prompt := fmt.Sprintf("Σύνοψη στα ελληνικά με 2-3 προτάσεις:\nΤίτλος: %s\nΚείμενο: %s",
		title, truncateContent(content))

	return p.sendRequest(chatRequest{
		Model:     p.config.Model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 120,
	}, "Summarize")
}

func (p *LLMProvider) CheckRelevance(query, title, snippet string) (bool, error) {
	prompt := fmt.Sprintf("Είναι αυτό το άρθρο σχετικό με το query %q;\n\nΤίτλος: %s\nΠεριγραφή: %s\n\nΑπάντησε ΜΟΝΟ με \"ΝΑΙ\" ή \"ΟΧΙ\".",
		query, title, snippet)

	answer, err := p.sendRequest(chatRequest{
		Model:     p.config.Model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 10,
	}, "CheckRelevance")
	if err != nil {
		return false, err
	}
	answer = strings.ToUpper(answer)
	return strings.Contains(answer, "ΝΑΙ") || strings.Contains(answer, "YES"), nil
}

const analyzeSystemPrompt = `Είσαι ειδικός στον ενεργειακό τομέα. Αναλύεις ερωτήσεις χρηστών.

Κατηγορίες: Φωτοβολταϊκά, Μπαταρίες, Αντλίες, Νομοθεσία, Επιδοτήσεις, Smart_Σπίτια.

Απάντα σε JSON format:
{"topics": ["κατηγορία1"], "keywords": ["keyword1", "keyword2"], "intent": "information|news|comparison|subsidy|legal|howto", "query_refined": "βελτιωμένο query"}`

func trendingPrompt(digest string) string {
	return fmt.Sprintf(`Ανάλυσε τα παρακάτω άρθρα ενέργειας και βρες τα TOP 5 trending topics:

%s

Για κάθε topic δώσε όνομα, importance (1-10), keywords (comma-separated) και 2-3 suggested search queries.

Απάντησε σε JSON format:
{"topics": [{"topic": "...", "importance": 8, "keywords": "φωτοβολταϊκά, επιδότηση", "queries": ["νέα προγράμματα φωτοβολταϊκών", "επιδότηση φωτοβολταϊκών"]}]}`, digest)
}

func discoverPrompt(today string) string {
	return fmt.Sprintf(`Σήμερα είναι %s. Δημιούργησε 10 smart search queries για energy news στην Ελλάδα.

Εστίασε σε:
1. Νέα προγράμματα επιδοτήσεων (φωτοβολταϊκά, αντλίες θερμότητας, μονώσεις)
2. Αλλαγές στη νομοθεσία (net metering, net billing, ΡΑΕ)
3. Νέες τεχνολογίες (μπαταρίες, smart home, IoT)
4. Market updates (τιμές ενέργειας, προμηθευτές)
5. Προθεσμίες και παρατάσεις προγραμμάτων

Απάντησε ΜΟΝΟ με τα queries, ένα ανά γραμμή, χωρίς numbering.`, today)
}

func (p *LLMProvider) TrendingTopics(digest string) ([]TrendingTopic, error) {
	content, err := p.sendRequest(chatRequest{
		Model:          p.config.Model,
		Messages:       []chatMessage{{Role: "user", Content: trendingPrompt(digest)}},
		MaxTokens:      1000,
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}, "TrendingTopics")
	if err != nil {
		return nil, err
	}
	return parseTrendingTopics(content)
}

func (p *LLMProvider) DiscoverQueries() ([]string, error) {
	content, err := p.sendRequest(chatRequest{
		Model:       p.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: discoverPrompt(time.Now().Format("2006-01-02"))}},
		MaxTokens:   300,
		Temperature: 0.5,
	}, "DiscoverQueries")
	if err != nil {
		return nil, err
	}
	return parseQueryLines(content, 10), nil
}

func (p *LLMProvider) AnalyzeQuery(query string) (*QueryAnalysis, error) {
	content, err := p.sendRequest(chatRequest{
		Model: p.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: analyzeSystemPrompt},
			{Role: "user", Content: "Ανάλυσε αυτό το query: " + query},
		},
		MaxTokens:      200,
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}, "AnalyzeQuery")
	if err != nil {
		return nil, err
	}

	var analysis QueryAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return &analysis, nil
}
