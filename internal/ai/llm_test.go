package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, reply)
	}))
}

func testProvider(baseURL string) *LLMProvider {
	return &LLMProvider{
		config: ProviderConfig{Name: "test", BaseURL: baseURL, APIKey: "k", Model: "m"},
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestLLMProviderSummarize(t *testing.T) {
	srv := chatServer(t, "Μια σύντομη σύνοψη.")
	defer srv.Close()

	summary, err := testProvider(srv.URL).Summarize("Τίτλος", "Κείμενο άρθρου")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary != "Μια σύντομη σύνοψη." {
		t.Errorf("unexpected summary: %q", summary)
	}
}

func TestLLMProviderSummarizeTruncatesContent(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		seen = req.Messages[0].Content
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	long := strings.Repeat("κ", 10000)
	if _, err := testProvider(srv.URL).Summarize("T", long); err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if strings.Contains(seen, strings.Repeat("κ", maxContentChars+1)) {
		t.Error("content was not truncated before sending")
	}
}

func TestLLMProviderCheckRelevance(t *testing.T) {
	cases := []struct {
		reply string
		want  bool
	}{
		{"ΝΑΙ", true},
		{"ναι, είναι σχετικό", true},
		{"YES", true},
		{"ΟΧΙ", false},
		{"maybe", false},
	}
	for _, tc := range cases {
		srv := chatServer(t, tc.reply)
		relevant, err := testProvider(srv.URL).CheckRelevance("q", "t", "s")
		srv.Close()
		if err != nil {
			t.Fatalf("relevance check failed: %v", err)
		}
		if relevant != tc.want {
			t.Errorf("reply %q: expected %v, got %v", tc.reply, tc.want, relevant)
		}
	}
}

func TestLLMProviderAnalyzeQuery(t *testing.T) {
	srv := chatServer(t, `{"topics":["Φωτοβολταϊκά"],"keywords":["net metering"],"intent":"news","query_refined":"net metering νέα"}`)
	defer srv.Close()

	analysis, err := testProvider(srv.URL).AnalyzeQuery("τι νέα για net metering;")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(analysis.Topics) != 1 || analysis.Topics[0] != "Φωτοβολταϊκά" {
		t.Errorf("unexpected topics: %v", analysis.Topics)
	}
	if analysis.Intent != "news" {
		t.Errorf("unexpected intent: %s", analysis.Intent)
	}
}

func TestLLMProviderTrendingTopics(t *testing.T) {
	srv := chatServer(t, `{"topics":[{"topic":"Νέο πρόγραμμα φωτοβολταϊκών","importance":8,"keywords":"φωτοβολταϊκά, επιδότηση","queries":["q1","q2"]}]}`)
	defer srv.Close()

	topics, err := testProvider(srv.URL).TrendingTopics("- Τίτλος: σύνοψη")
	if err != nil {
		t.Fatalf("trending topics failed: %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("got %d topics, want 1", len(topics))
	}
	if topics[0].Importance != 8 || len(topics[0].Queries) != 2 {
		t.Errorf("unexpected topic: %+v", topics[0])
	}
}

func TestLLMProviderTrendingTopicsBareArray(t *testing.T) {
	srv := chatServer(t, `[{"topic":"Μπαταρίες","importance":5,"queries":["q"]}]`)
	defer srv.Close()

	topics, err := testProvider(srv.URL).TrendingTopics("digest")
	if err != nil {
		t.Fatalf("trending topics failed: %v", err)
	}
	if len(topics) != 1 || topics[0].Topic != "Μπαταρίες" {
		t.Errorf("unexpected topics: %+v", topics)
	}
}

func TestLLMProviderDiscoverQueriesStripsNumbering(t *testing.T) {
	srv := chatServer(t, "1. πρώτο query\n- δεύτερο query\n\n• τρίτο query")
	defer srv.Close()

	queries, err := testProvider(srv.URL).DiscoverQueries()
	if err != nil {
		t.Fatalf("discover queries failed: %v", err)
	}
	want := []string{"πρώτο query", "δεύτερο query", "τρίτο query"}
	if len(queries) != len(want) {
		t.Fatalf("got %v, want %v", queries, want)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Errorf("query %d = %q, want %q", i, queries[i], want[i])
		}
	}
}

func TestLLMProviderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := testProvider(srv.URL).Summarize("t", "c"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestMultiProviderFallsBack(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := chatServer(t, "από τον δεύτερο")
	defer good.Close()

	multi := NewMultiProvider(testProvider(bad.URL), testProvider(good.URL))
	summary, err := multi.Summarize("t", "c")
	if err != nil {
		t.Fatalf("multi summarize failed: %v", err)
	}
	if summary != "από τον δεύτερο" {
		t.Errorf("unexpected summary: %q", summary)
	}
}

func TestMultiProviderAllFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer bad.Close()

	multi := NewMultiProvider(testProvider(bad.URL))
	if _, err := multi.Summarize("t", "c"); err == nil {
		t.Error("expected error when every provider fails")
	}
}
