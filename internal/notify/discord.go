package notify

import (
	"context"
	"net/http"
)

const (
	discordMaxChars = 2000
	// discordSuppressEmbeds stops market links from unfurling.
	discordSuppressEmbeds = 1 << 2
)

type discordAllowedMentions struct {
	Parse []string `json:"parse"`
}

type discordMessage struct {
	Content         string                 `json:"content"`
	Flags           int                    `json:"flags"`
	AllowedMentions discordAllowedMentions `json:"allowed_mentions"`
}

// DiscordSender posts to a Discord channel webhook.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordSender creates a DiscordSender for the given webhook URL.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     newHTTPClient(),
	}
}

// Send posts the message with a bold title. Mentions are disabled so market
// text such as "@everyone" cannot ping the channel.
func (d *DiscordSender) Send(ctx context.Context, title, message string) error {
	return postJSON(ctx, d.client, d.Name(), d.webhookURL, discordMessage{
		Content:         truncate("**"+title+"**\n"+message, discordMaxChars),
		Flags:           discordSuppressEmbeds,
		AllowedMentions: discordAllowedMentions{Parse: []string{}},
	})
}

// Name returns the sender identifier.
func (d *DiscordSender) Name() string { return "discord" }
