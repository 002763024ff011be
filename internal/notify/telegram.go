package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
)

const sendTimeout = 5 * time.Second

// TelegramNotifier announces freshly published articles in a Telegram chat.
// It is optional: when unconfigured the API layer simply skips notification.
type TelegramNotifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier registers bot token and chat identifier.
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: sendTimeout},
	}
}

// PublishArticle posts a short Markdown digest of the article.
func (n *TelegramNotifier) PublishArticle(ctx context.Context, article domain.Article) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", digest(article))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func digest(article domain.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)\n", article.Title, article.Source)
	if article.ScorePertinence != nil {
		fmt.Fprintf(&b, "Score: %d/10\n", *article.ScorePertinence)
	}
	if article.Analysis != nil && article.Analysis.ResumeNeutre != "" {
		fmt.Fprintf(&b, "%s\n", article.Analysis.ResumeNeutre)
	}
	b.WriteString(article.URL)
	return b.String()
}
