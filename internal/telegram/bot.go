package telegram

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mealplanner/internal/app"
	"mealplanner/internal/config"
	"mealplanner/internal/diary"
	"mealplanner/internal/planner"
)

// sessionTimeout bounds how long a planning session waits for chat
// replies. The planning core itself has no timeout; the bot imposes one
// at this boundary.
const sessionTimeout = 15 * time.Minute

// Bot wraps the Telegram API and the meal planning application. It
// turns a chat conversation into the planner's blocking decision
// channel: proposals go out as messages, replies come back as accept or
// reject decisions.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config

	mu      sync.Mutex
	replies map[int64]chan string // chats with an active planning session
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:     api,
		app:     application,
		cfg:     cfg,
		replies: make(map[int64]chan string),
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)",
			update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// A chat with an active session gets its messages routed to the
	// waiting decision provider.
	b.mu.Lock()
	replyCh, active := b.replies[chatID]
	b.mu.Unlock()
	if active {
		select {
		case replyCh <- text:
		default:
			b.send(chatID, "Still working on your previous reply, one moment.")
		}
		return
	}

	switch {
	case strings.HasPrefix(text, "/plan"):
		days := 7
		if fields := strings.Fields(text); len(fields) > 1 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil || parsed < 1 {
				b.send(chatID, "Usage: /plan [days], e.g. /plan 7")
				return
			}
			days = parsed
		}
		b.runPlanSession(chatID, days)
	case strings.HasPrefix(text, "/shopping"):
		b.handleShoppingRequest(chatID, text)
	default:
		b.send(chatID, "Commands:\n/plan [days] — plan meals starting tomorrow\n/shopping <start> <end> — shopping list for confirmed dates (YYYY-MM-DD)")
	}
}

func (b *Bot) runPlanSession(chatID int64, days int) {
	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	replyCh := make(chan string, 1)
	b.mu.Lock()
	if _, exists := b.replies[chatID]; exists {
		b.mu.Unlock()
		b.send(chatID, "A planning session is already running in this chat.")
		return
	}
	b.replies[chatID] = replyCh
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.replies, chatID)
		b.mu.Unlock()
	}()

	start := diary.Normalize(time.Now().AddDate(0, 0, 1))
	targetDates := make([]time.Time, days)
	for i := range targetDates {
		targetDates[i] = start.AddDate(0, 0, i)
	}

	provider := &chatDecisionProvider{bot: b, chatID: chatID, replies: replyCh}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	confirmed, err := b.app.PlanMeals(ctx, targetDates, provider, rng)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Planning failed: %v", err))
		return
	}

	b.send(chatID, "Confirmed meal plan:\n"+confirmed.String())
}

func (b *Bot) handleShoppingRequest(chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		b.send(chatID, "Usage: /shopping <start> <end> (YYYY-MM-DD)")
		return
	}

	start, err := time.ParseInLocation(diary.DateFormat, fields[1], time.UTC)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Invalid start date %q", fields[1]))
		return
	}
	end, err := time.ParseInLocation(diary.DateFormat, fields[2], time.UTC)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Invalid end date %q", fields[2]))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, content, err := b.app.MakeShoppingList(ctx, start, end)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Failed to build shopping list: %v", err))
		return
	}
	b.send(chatID, content)
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// chatDecisionProvider collects plan decisions over a Telegram chat:
// "ok" accepts the whole proposal, a list of dates rejects those dates.
type chatDecisionProvider struct {
	bot     *Bot
	chatID  int64
	replies chan string
}

func (p *chatDecisionProvider) Decide(ctx context.Context, proposal *diary.Diary) (planner.Decision, error) {
	p.bot.send(p.chatID, "Proposed meal plan:\n"+proposal.String()+
		"\n\nReply 'ok' to accept, or the dates to change (YYYY-MM-DD, space separated).")

	for {
		var reply string
		select {
		case reply = <-p.replies:
		case <-ctx.Done():
			return planner.Decision{}, fmt.Errorf("no decision received: %w", ctx.Err())
		}

		switch strings.ToLower(reply) {
		case "ok", "yes", "y":
			return planner.AcceptAll(), nil
		}

		var rejections []planner.Rejection
		valid := true
		for _, field := range strings.Fields(reply) {
			date, err := time.ParseInLocation(diary.DateFormat, field, time.UTC)
			if err != nil {
				p.bot.send(p.chatID, fmt.Sprintf("Didn't understand %q. Reply 'ok' or dates like 2025-09-01.", field))
				valid = false
				break
			}
			proposed, ok := proposal.Get(date)
			if !ok {
				p.bot.send(p.chatID, fmt.Sprintf("%s is not part of the proposal.", field))
				valid = false
				break
			}
			rejections = append(rejections, planner.Rejection{Date: date, MealName: proposed.Name})
		}

		if valid && len(rejections) > 0 {
			return planner.RejectPairs(rejections...), nil
		}
	}
}
