package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rongwang/pokerclub-server/internal/models"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier messages operators when a financial reset closes a period.
// Individual transactions are not announced.
type TelegramNotifier struct {
	bot     sender
	chatIDs []int64
	timeout time.Duration // zero means DefaultTelegramTimeout
}

// DefaultTelegramTimeout bounds how long a reset announcement may hold up its caller
const DefaultTelegramTimeout = 5 * time.Second

// NewTelegramNotifier creates a bot client for the given token
func NewTelegramNotifier(botToken string, chatIDs []int64) (*TelegramNotifier, error) {
	client := &http.Client{Timeout: DefaultTelegramTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, chatIDs: chatIDs, timeout: DefaultTelegramTimeout}, nil
}

func (n *TelegramNotifier) TransactionRecorded(context.Context, models.Transaction) error {
	return nil
}

// ResetPerformed returns once every chat has been sent to, or when ctx is done or the
// timeout elapses. Sends still in flight then finish in the background.
func (n *TelegramNotifier) ResetPerformed(ctx context.Context, reset models.FinancialReset) error {
	timeout := n.timeout
	if timeout <= 0 {
		timeout = DefaultTelegramTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- n.send(ResetMessage(reset))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("telegram reset announcement: %w", ctx.Err())
	}
}

func (n *TelegramNotifier) send(text string) error {
	var errs []error
	for _, chatID := range n.chatIDs {
		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			errs = append(errs, fmt.Errorf("telegram chat %d: %w", chatID, err))
		}
	}

	return errors.Join(errs...)
}

// ResetMessage renders the operator announcement for a reset
func ResetMessage(reset models.FinancialReset) string {
	msg := fmt.Sprintf("Financial reset #%d at %s\nDeposits before: %s\nWithdrawals before: %s",
		reset.ID,
		reset.ResetDate.Format("2006-01-02 15:04"),
		reset.TotalDepositsBefore.StringFixed(2),
		reset.TotalWithdrawalsBefore.StringFixed(2),
	)
	if reset.Notes != "" {
		msg += "\nNotes: " + reset.Notes
	}
	return msg
}
