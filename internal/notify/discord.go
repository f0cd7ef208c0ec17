package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sakenavi/sakenavi-server/internal/ratelimit"
)

const (
	// Discord allows roughly 30 webhook executions per minute.
	defaultRPS   = 0.5
	defaultBurst = 5

	defaultTimeout = 10 * time.Second

	// Embed accent color, blue-500.
	embedColor = 0x3b82f6
)

// Discord posts events to a Discord webhook.
type Discord struct {
	http       *http.Client
	limiter    *ratelimit.KeyedRateLimiter
	logger     *slog.Logger
	webhookURL string
}

// NewDiscord creates a rate-limited Discord webhook sender.
func NewDiscord(webhookURL string, logger *slog.Logger) *Discord {
	return &Discord{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:    ratelimit.New(defaultRPS, defaultBurst),
		logger:     logger,
		webhookURL: webhookURL,
	}
}

// Close releases resources held by the sender.
func (d *Discord) Close() {
	d.limiter.Stop()
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

// ReviewPosted sends a review announcement as an embed.
func (d *Discord) ReviewPosted(event ReviewEvent) {
	breweryName := event.BreweryName
	if breweryName == "" {
		breweryName = "不明"
	}

	fields := []embedField{
		{Name: "投稿者", Value: event.UserName, Inline: true},
		{Name: "酒蔵", Value: fmt.Sprintf("%s (%d)", breweryName, event.BreweryID), Inline: true},
		{Name: "お酒", Value: event.SakeName, Inline: true},
		{Name: "評価", Value: strings.Repeat("⭐", event.Rating)},
	}
	if len(event.Tags) > 0 {
		fields = append(fields, embedField{Name: "タグ", Value: strings.Join(event.Tags, ", ")})
	}
	if event.Comment != nil && *event.Comment != "" {
		fields = append(fields, embedField{Name: "コメント", Value: *event.Comment})
	}

	d.send(webhookPayload{
		Embeds: []embed{{
			Title:     "🍶 新しいレビューが投稿されました",
			Color:     embedColor,
			Fields:    fields,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

// NotePosted sends a brewery note announcement as a plain message.
func (d *Discord) NotePosted(event NoteEvent) {
	d.send(webhookPayload{
		Content: fmt.Sprintf("**%s** さんが **%s (%d)** にノートを投稿しました\n\n%s",
			event.UserName, event.BreweryName, event.BreweryID, event.Comment),
	})
}

// send executes the webhook request with rate limiting. Failures are
// logged and swallowed.
func (d *Discord) send(payload webhookPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := d.limiter.Wait(ctx, "webhook"); err != nil {
		d.logger.Warn("discord notification dropped", "error", err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("discord payload marshal failed", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("discord request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		d.logger.Warn("discord notification failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.logger.Warn("discord webhook rejected",
			"status", resp.StatusCode,
			"body", string(detail),
		)
	}
}
