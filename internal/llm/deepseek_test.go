package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shalom-302/scraapbackend/internal/config"
)

const validAnalysisJSON = `{
	"resume_neutre": "Un résumé factuel de l'article.",
	"problematique_generale": "Concentration du marché.",
	"impact_afrique": "Dépendance accrue.",
	"problematique_africaine": "Manque d'infrastructure locale.",
	"eveil_de_conscience": "Investir localement.",
	"piste_opportunite": "Data centers régionaux.",
	"type_evenement": "Tendance",
	"resume_strategique": "Événement structurant.",
	"lecon_a_retenir": "Anticiper.",
	"impact_potentiel": "Fort.",
	"score_pertinence": 8
}`

func chatBody(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(payload)
}

func newTestClient(serverURL string, maxChars int) *DeepSeekClient {
	return NewDeepSeekClient(config.DeepSeekConfig{
		Endpoint: serverURL,
		Model:    "deepseek-chat",
		APIKey:   "test-key",
	}, maxChars)
}

func TestAnalyzeParsesStructuredOutput(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}
		fmt.Fprint(w, chatBody(validAnalysisJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	analysis, err := client.Analyze(context.Background(), "article body")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if analysis.ScorePertinence != 8 {
		t.Fatalf("unexpected score: %d", analysis.ScorePertinence)
	}
	if analysis.TypeEvenement != "Tendance" {
		t.Fatalf("unexpected type_evenement: %s", analysis.TypeEvenement)
	}
	if !strings.Contains(gotPrompt, "<article_text>article body</article_text>") {
		t.Fatalf("prompt does not embed content: %q", gotPrompt)
	}
}

func TestAnalyzeTruncatesContent(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Messages[0].Content
		fmt.Fprint(w, chatBody(validAnalysisJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 100)
	long := strings.Repeat("x", 500)
	if _, err := client.Analyze(context.Background(), long); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if strings.Contains(gotPrompt, strings.Repeat("x", 101)) {
		t.Fatal("content was not truncated to the character budget")
	}
	if !strings.Contains(gotPrompt, strings.Repeat("x", 100)) {
		t.Fatal("truncated content missing from prompt")
	}
}

func TestAnalyzeToleratesCodeFences(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fenced := "```json\n" + validAnalysisJSON + "\n```"
		fmt.Fprint(w, chatBody(fenced))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	analysis, err := client.Analyze(context.Background(), "content")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.ScorePertinence != 8 {
		t.Fatalf("unexpected score: %d", analysis.ScorePertinence)
	}
}

func TestAnalyzeRejectsUncoercibleOutput(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatBody("I cannot analyze this article."))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	if _, err := client.Analyze(context.Background(), "content"); err == nil {
		t.Fatal("expected error for non-JSON model output")
	}
}

func TestAnalyzeRejectsScoreOutOfRange(t *testing.T) {
	t.Parallel()

	bad := strings.Replace(validAnalysisJSON, `"score_pertinence": 8`, `"score_pertinence": 12`, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatBody(bad))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	if _, err := client.Analyze(context.Background(), "content"); err == nil {
		t.Fatal("expected validation error for score 12")
	}
}

func TestAnalyzeSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	if _, err := client.Analyze(context.Background(), "content"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}
