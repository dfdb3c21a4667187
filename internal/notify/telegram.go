// Package notify announces a freshly generated issue via the Telegram Bot
// API. It formats a short publication notice with the week's headline
// numbers and handles delivery with retry logic for reliability.
package notify

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/framework-foundry/weekly/internal/models"
)

// Client sends publication notices to a Telegram chat.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a Telegram notification client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Announce sends the publication notice for a generated issue. outPath is
// where the Markdown landed so subscribers with filesystem access can find
// it.
func (c *Client) Announce(summary *models.WeekSummary, tipCount int, outPath string) error {
	message := formatNotice(summary, tipCount, outPath)

	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatNotice builds the MarkdownV2 message body.
func formatNotice(summary *models.WeekSummary, tipCount int, outPath string) string {
	edition := "Domestic"
	if summary.Edition == models.EditionInternational {
		edition = "International"
	}

	message := "*Framework Foundry Weekly published*\n\n"
	message += fmt.Sprintf("Edition: %s\n", escapeMarkdownV2(edition))
	message += fmt.Sprintf("Week ending: %s\n", escapeMarkdownV2(summary.WeekEnding))

	if summary.Best != nil && summary.Worst != nil {
		best := escapeMarkdownV2(fmt.Sprintf("%s %+.2f%%", summary.Best.Name, summary.Best.WeeklyPct))
		worst := escapeMarkdownV2(fmt.Sprintf("%s %+.2f%%", summary.Worst.Name, summary.Worst.WeeklyPct))
		message += fmt.Sprintf("Best: %s\nWorst: %s\n", best, worst)
	}

	message += fmt.Sprintf("Positioning tips: %d\n", tipCount)
	if summary.Stale {
		message += "Data: stale fixture snapshot\n"
	}
	message += fmt.Sprintf("\nSaved to %s", escapeMarkdownV2(outPath))
	return message
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
