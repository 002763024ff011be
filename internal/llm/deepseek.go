package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Shalom-302/scraapbackend/internal/config"
	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
)

const (
	analysisTimeout = 60 * time.Second

	// Character budget submitted per article, for cost and context limits.
	defaultMaxChars = 8000
)

// Two-part analysis prompt: a neutral global read, then the Africa-focused
// strategic read. The JSON key list is the ArticleAnalysis wire contract.
const analysisPrompt = `Vous êtes un analyste technologique mondial doublé d'un stratège pour l'Afrique. Pour l'article fourni, effectuez une analyse complète en deux temps : une analyse globale et neutre, puis une analyse stratégique spécifique à l'Afrique.

**Partie 1 : Analyse Globale (Neutre)**
1.  **Résumé Neutre :** Rédigez un résumé factuel et dense de l'article, de style journalistique (type agence de presse), strictement compris entre 700 et 800 caractères.
2.  **Problématique Générale :** Identifiez la problématique principale ou universelle soulevée.

**Partie 2 : Analyse Stratégique pour l'Afrique**
3.  **Impact sur l'Afrique :** Quel est l'impact direct ou indirect pour le continent ?
4.  **Problématique Spécifique à l'Afrique :** Quelle dépendance ou faiblesse cela révèle-t-il pour l'Afrique ?
5.  **Éveil de Conscience :** Quelle est la leçon critique pour les acteurs de la tech africaine ?
6.  **Piste d'Opportunité :** Quelle opportunité concrète cela crée-t-il ?
7.  **Score de Pertinence :** Attribuez un score de 1 à 10 sur l'importance de cette nouvelle pour l'Afrique.

Répondez uniquement avec un objet JSON contenant exactement les clés suivantes :
"resume_neutre", "problematique_generale", "impact_afrique", "problematique_africaine", "eveil_de_conscience", "piste_opportunite", "type_evenement", "resume_strategique", "lecon_a_retenir", "impact_potentiel", "score_pertinence" (entier de 1 à 10).

Article à analyser : <article_text>%s</article_text>`

// DeepSeekClient implements ports.Analyzer against the DeepSeek
// chat-completions API (OpenAI-compatible wire format). It is constructed
// once at startup and injected wherever analysis is needed.
type DeepSeekClient struct {
	endpoint   string
	model      string
	apiKey     string
	maxChars   int
	httpClient *http.Client
}

var _ ports.Analyzer = (*DeepSeekClient)(nil)

// NewDeepSeekClient builds a client from configuration.
func NewDeepSeekClient(cfg config.DeepSeekConfig, maxChars int) *DeepSeekClient {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &DeepSeekClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		maxChars: maxChars,
		httpClient: &http.Client{
			Timeout: analysisTimeout,
		},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze submits truncated content with the fixed prompt and coerces the
// response into the ArticleAnalysis shape. Any transport, decode, or
// validation failure is returned as an error; callers record it per article.
func (c *DeepSeekClient) Analyze(ctx context.Context, content string) (domain.ArticleAnalysis, error) {
	var analysis domain.ArticleAnalysis

	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return analysis, fmt.Errorf("deepseek client misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(analysisPrompt, truncate(content, c.maxChars))},
		},
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return analysis, fmt.Errorf("marshal analysis payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return analysis, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return analysis, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return analysis, fmt.Errorf("deepseek error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return analysis, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return analysis, fmt.Errorf("chat response has no choices")
	}

	payload := stripFences(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return analysis, fmt.Errorf("model output is not valid analysis JSON: %w", err)
	}
	if err := analysis.Validate(); err != nil {
		return analysis, fmt.Errorf("model output failed validation: %w", err)
	}

	return analysis, nil
}

// truncate bounds content by bytes; article text is overwhelmingly ASCII and
// the budget is a soft cost control, not a precise rune count.
func truncate(content string, maxChars int) string {
	if len(content) <= maxChars {
		return content
	}
	return content[:maxChars]
}

// stripFences tolerates models wrapping JSON in a markdown code block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
