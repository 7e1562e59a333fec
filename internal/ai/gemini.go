package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider over the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: "gemini-2.0-flash"}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) generate(prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(context.Background(), p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (p *GeminiProvider) Summarize(title, content string) (string, error) {
	prompt := fmt.Sprintf("Σύνοψη στα ελληνικά με 2-3 προτάσεις:\nΤίτλος: %s\nΚείμενο: %s",
		title, truncateContent(content))
	return p.generate(prompt)
}

func (p *GeminiProvider) CheckRelevance(query, title, snippet string) (bool, error) {
	prompt := fmt.Sprintf("Είναι αυτό το άρθρο σχετικό με το query %q;\n\nΤίτλος: %s\nΠεριγραφή: %s\n\nΑπάντησε ΜΟΝΟ με \"ΝΑΙ\" ή \"ΟΧΙ\".",
		query, title, snippet)
	answer, err := p.generate(prompt)
	if err != nil {
		return false, err
	}
	answer = strings.ToUpper(answer)
	return strings.Contains(answer, "ΝΑΙ") || strings.Contains(answer, "YES"), nil
}

func (p *GeminiProvider) TrendingTopics(digest string) ([]TrendingTopic, error) {
	content, err := p.generate(trendingPrompt(digest))
	if err != nil {
		return nil, err
	}
	return parseTrendingTopics(stripFence(content))
}

func (p *GeminiProvider) DiscoverQueries() ([]string, error) {
	content, err := p.generate(discoverPrompt(time.Now().Format("2006-01-02")))
	if err != nil {
		return nil, err
	}
	return parseQueryLines(stripFence(content), 10), nil
}

// stripFence removes the markdown fence Gemini tends to wrap replies in.
func stripFence(content string) string {
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func (p *GeminiProvider) AnalyzeQuery(query string) (*QueryAnalysis, error) {
	content, err := p.generate(analyzeSystemPrompt + "\n\nΑνάλυσε αυτό το query: " + query)
	if err != nil {
		return nil, err
	}
	content = stripFence(content)

	var analysis QueryAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return &analysis, nil
}
