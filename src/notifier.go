package main

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"yield_aggregator/src/apy"
)

// Notifier delivers a decision message to whoever follows the aggregator.
type Notifier interface {
	Notify(text string) error
}

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type botStore interface {
	AddSubscriber(chatID int64) error
	RemoveSubscriber(chatID int64) error
	GetAllSubscribers() (map[int64]bool, error)
	RecentChecks(limit int) ([]CheckRecord, error)
}

type latestChecker interface {
	Latest() (Check, bool)
}

type TelegramNotifier struct {
	bot botAPI
	db  botStore
	log *zap.SugaredLogger
}

func NewTelegramNotifier(bot botAPI, db botStore, log *zap.SugaredLogger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, db: db, log: log}
}

// Notify sends text to every subscriber. It keeps going after a failed
// send and returns the first error.
func (n *TelegramNotifier) Notify(text string) error {
	subscribers, err := n.db.GetAllSubscribers()
	if err != nil {
		return fmt.Errorf("loading subscribers: %w", err)
	}

	var firstErr error
	for chatID := range subscribers {
		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.log.Errorw("sending telegram message", "chat_id", chatID, "err", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("sending to chat %d: %w", chatID, err)
			}
		}
	}
	return firstErr
}

// Listen answers bot commands until ctx is done.
func (n *TelegramNotifier) Listen(ctx context.Context, checks latestChecker) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := n.bot.GetUpdatesChan(u)
	defer n.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			reply := n.handleCommand(update.Message, checks)
			if _, err := n.bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, reply)); err != nil {
				n.log.Errorw("replying to command", "command", update.Message.Command(), "err", err)
			}
		}
	}
}

func (n *TelegramNotifier) handleCommand(msg *tgbotapi.Message, checks latestChecker) string {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "subscribe":
		if err := n.db.AddSubscriber(chatID); err != nil {
			n.log.Errorw("adding subscriber", "chat_id", chatID, "err", err)
			return "Could not subscribe, try again later."
		}
		return "Subscribed to WETH venue updates."
	case "unsubscribe":
		if err := n.db.RemoveSubscriber(chatID); err != nil {
			n.log.Errorw("removing subscriber", "chat_id", chatID, "err", err)
			return "Could not unsubscribe, try again later."
		}
		return "Unsubscribed."
	case "apy":
		check, ok := checks.Latest()
		if !ok {
			return "No yield check has completed yet."
		}
		return formatCheck(check)
	case "history":
		records, err := n.db.RecentChecks(historyLimit)
		if err != nil {
			n.log.Errorw("loading history", "err", err)
			return "Could not load history, try again later."
		}
		if len(records) == 0 {
			return "No yield checks recorded yet."
		}
		return formatHistory(records)
	default:
		return "Commands: /subscribe, /unsubscribe, /apy, /history"
	}
}

const historyLimit = 5

// logNotifier is used when no Telegram token is configured.
type logNotifier struct {
	log *zap.SugaredLogger
}

func (n logNotifier) Notify(text string) error {
	n.log.Infow("notification", "text", text)
	return nil
}

func formatCheck(c Check) string {
	lines := []string{
		"WETH yields:",
		fmt.Sprintf("Compound: %s", c.Decision.Compound),
		fmt.Sprintf("Aave: %s", c.Decision.Aave),
		fmt.Sprintf("Venue: %s", c.Decision.To),
		fmt.Sprintf("Checked: %s", c.CheckedAt.UTC().Format("2006-01-02 15:04 MST")),
	}
	return strings.Join(lines, "\n")
}

func formatDecision(c Check) string {
	d := c.Decision
	var head string
	switch {
	case d.Rebalance():
		spread := d.Compound.Percent().Sub(d.Aave.Percent()).Abs()
		head = fmt.Sprintf("Rebalance WETH from %s to %s (+%s pts)", d.From, d.To, spread.StringFixed(2))
	case d.From == apy.VenueNone:
		head = fmt.Sprintf("Deposit WETH into %s", d.To)
	default:
		head = fmt.Sprintf("Keep WETH in %s", d.To)
	}
	return head + "\n" + formatCheck(c)
}

func formatHistory(records []CheckRecord) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, "Recent checks:")
	for _, r := range records {
		line := fmt.Sprintf("%s  compound %s  aave %s  -> %s",
			r.CheckedAt.Format("01-02 15:04"), r.CompoundYield, r.AaveYield, r.Venue)
		if r.Moved {
			line += " *"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
