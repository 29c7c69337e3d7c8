// Package api provides handlers for external APIs and interfaces
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/repository"
	"github.com/abelzeko/aquahealth/internal/usecases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	feedPageSize    = 5
	logbookPageSize = 10
	insightPageSize = 5
)

// Services bundles the use cases the front ends talk to
type Services struct {
	Assessments *usecases.AssessmentUseCase
	Feed        *usecases.FeedUseCase
	Dashboard   *usecases.DashboardUseCase
	Insights    *usecases.InsightUseCase
}

// TelegramBot handles interactions with the Telegram API
type TelegramBot struct {
	bot        *tgbotapi.BotAPI
	services   Services
	fetchPhoto func(fileID string) (io.ReadCloser, error)
}

// NewTelegramBot creates a new Telegram bot handler
func NewTelegramBot(botToken string, services Services) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	t := &TelegramBot{
		bot:      bot,
		services: services,
	}
	t.fetchPhoto = t.downloadFile
	return t, nil
}

// Start begins listening for and handling Telegram messages
func (t *TelegramBot) Start() {
	zap.S().Infof("Authorized on Telegram account %s", t.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	zap.S().Info("Bot is now listening for messages...")

	for update := range updates {
		if update.Message == nil {
			continue
		}

		zap.S().Infof("Received message from %s (ID: %d): %s",
			update.Message.From.UserName,
			update.Message.From.ID,
			update.Message.Text)

		t.handleMessage(update)
	}
}

// Stop ends the update loop
func (t *TelegramBot) Stop() {
	t.bot.StopReceivingUpdates()
}

// handleMessage processes a Telegram message update
func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")

	switch {
	case update.Message.IsCommand():
		t.handleCommand(update.Message, &msg)
	case len(update.Message.Photo) > 0:
		t.handlePhoto(update.Message, &msg)
	default:
		t.handleNonCommand(update.Message, &msg)
	}

	zap.S().Infof("Sending response to user %s", update.Message.From.UserName)
	if _, err := t.bot.Send(msg); err != nil {
		zap.S().Errorf("Error sending message: %v", err)
	}
}

// handleCommand processes commands like /start, /help, etc.
func (t *TelegramBot) handleCommand(message *tgbotapi.Message, msg *tgbotapi.MessageConfig) {
	args := message.CommandArguments()
	zap.S().Infof("Handling /%s command with args '%s' for user %s", message.Command(), args, message.From.UserName)

	switch message.Command() {
	case "start":
		msg.Text = "Welcome to AquaHealth! Log pond readings with /assess, share ocean anomalies with /report, " +
			"or use /help to see everything I can do."

	case "help":
		msg.Text = "Available commands:\n" +
			"/assess [temperature] [oxygen] [salinity] [foam] - Score pond readings, e.g. /assess 29 3 26 heavy\n" +
			"/report [tag] | [location] | [lat] | [lon] | [message] - Report an ocean anomaly (attach a photo with this as its caption)\n" +
			"/feed [count] - Show the latest community reports\n" +
			"/tags - Show the report categories\n" +
			"/dashboard - Show the logbook dashboard\n" +
			"/logbook [status] - Show logbook entries, optionally for one alert status\n" +
			"/trend [temperature|salinity|oxygen|risk_score] - Show a parameter over time\n" +
			"/insights [location] | [keyword] - Show Harbor Helper explanations\n" +
			"/help - Show this help message"

	case "assess":
		t.handleAssessCommand(args, msg)

	case "report":
		t.handleReportCommand(args, t.senderName(message), nil, msg)

	case "feed":
		t.handleFeedCommand(args, msg)

	case "tags":
		msg.Text = "Report categories:\n" + strings.Join(t.services.Feed.Tags(), " ")

	case "dashboard":
		t.handleDashboardCommand(msg)

	case "logbook":
		t.handleLogbookCommand(args, msg)

	case "trend":
		t.handleTrendCommand(args, msg)

	case "insights":
		t.handleInsightsCommand(args, msg)

	default:
		zap.S().Infof("Received unknown command /%s from user %s", message.Command(), message.From.UserName)
		msg.Text = "Unknown command. Use /help to see available commands."
	}
}

// senderName is the name a report is filed under
func (t *TelegramBot) senderName(message *tgbotapi.Message) string {
	if message.From == nil {
		return ""
	}
	if message.From.UserName != "" {
		return message.From.UserName
	}
	return message.From.FirstName
}

// handleAssessCommand processes the /assess command
func (t *TelegramBot) handleAssessCommand(args string, msg *tgbotapi.MessageConfig) {
	if strings.TrimSpace(args) == "" {
		msg.Text = "Please give temperature (°C), dissolved oxygen (ml/L) and salinity (PSU), optionally followed by foam (none, light, heavy). Example: /assess 29 3 26 heavy"
		return
	}

	readings, err := parseReadings(args)
	if err != nil {
		msg.Text = validationMessage(err)
		return
	}

	assessment, err := t.services.Assessments.AssessReadings(readings)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidObservation) {
			msg.Text = validationMessage(err)
			return
		}
		zap.S().Errorf("Error assessing readings: %v", err)
		msg.Text = "Error scoring the readings. Please try again later."
		return
	}

	msg.Text = "🧠 Risk Assessment\n\n" + FormatAssessment(assessment)
}

func validationMessage(err error) string {
	return "⚠️ " + strings.TrimPrefix(err.Error(), entities.ErrInvalidObservation.Error()+": ")
}

// handleReportCommand processes /report, with the photo of a captioned image if present
func (t *TelegramBot) handleReportCommand(args, user string, image io.Reader, msg *tgbotapi.MessageConfig) {
	if strings.TrimSpace(args) == "" {
		msg.Text = "Please describe the anomaly. Example: /report #RedTide | Split | 43.5081 | 16.4402 | Water turned rust red overnight\nUse /tags to see the categories."
		return
	}

	sub, err := parseReport(args)
	if err != nil {
		msg.Text = "⚠️ " + err.Error()
		return
	}
	sub.User = user
	sub.Image = image

	post, err := t.services.Feed.SubmitPost(sub)
	switch {
	case errors.Is(err, usecases.ErrUnknownTag):
		msg.Text = fmt.Sprintf("Unknown category %s. Use /tags to see the available categories.", sub.Tag)
		return
	case errors.Is(err, usecases.ErrInvalidPost):
		msg.Text = "⚠️ Latitude must be between -90 and 90 and longitude between -180 and 180."
		return
	case err != nil:
		zap.S().Errorf("Error submitting post: %v", err)
		msg.Text = "Error saving your report. Please try again later."
		return
	}

	msg.Text = fmt.Sprintf("Observation submitted successfully! Filed as @%s at %s.", post.User, post.Timestamp)
}

// handlePhoto files a captioned photo as a report
func (t *TelegramBot) handlePhoto(message *tgbotapi.Message, msg *tgbotapi.MessageConfig) {
	command, args, _ := strings.Cut(strings.TrimSpace(message.Caption), " ")
	if command != "/report" && !strings.HasPrefix(command, "/report@") {
		msg.Text = "To share a photo, send it with a /report caption. Use /help to see the format."
		return
	}

	// Telegram lists the sizes smallest first.
	photo := message.Photo[len(message.Photo)-1]
	image, err := t.fetchPhoto(photo.FileID)
	if err != nil {
		zap.S().Warnf("Failed to download photo %s, filing report without it: %v", photo.FileID, err)
		t.handleReportCommand(args, t.senderName(message), nil, msg)
		return
	}
	defer image.Close()

	t.handleReportCommand(args, t.senderName(message), image, msg)
}

// downloadFile fetches a file the user sent to the bot
func (t *TelegramBot) downloadFile(fileID string) (io.ReadCloser, error) {
	url, err := t.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file %s: status %d", fileID, resp.StatusCode)
	}
	return resp.Body, nil
}

// handleFeedCommand processes the /feed [count] command
func (t *TelegramBot) handleFeedCommand(args string, msg *tgbotapi.MessageConfig) {
	limit := parsePage(args, feedPageSize)
	items, err := t.services.Feed.ListPosts()
	if err != nil {
		zap.S().Errorf("Error loading feed: %v", err)
		msg.Text = "Error loading the community feed. Please try again later."
		return
	}
	if len(items) == 0 {
		msg.Text = "No community reports yet. Be the first with /report!"
		return
	}

	var b strings.Builder
	b.WriteString("🌐 Community Ocean Anomaly Posts\n\n")
	for i, item := range items {
		if i == limit {
			b.WriteString(fmt.Sprintf("…and %d older posts.", len(items)-limit))
			break
		}
		b.WriteString(FormatPost(item))
		b.WriteString("\n\n")
	}
	msg.Text = strings.TrimSpace(b.String())
}

// handleDashboardCommand processes the /dashboard command
func (t *TelegramBot) handleDashboardCommand(msg *tgbotapi.MessageConfig) {
	summary, err := t.services.Dashboard.Summary()
	if err != nil {
		zap.S().Errorf("Error loading dashboard: %v", err)
		msg.Text = "Error loading the dashboard. Please try again later."
		return
	}
	msg.Text = FormatSummary(summary)
}

// handleLogbookCommand processes the /logbook [status] command
func (t *TelegramBot) handleLogbookCommand(args string, msg *tgbotapi.MessageConfig) {
	status := strings.TrimSpace(args)
	if status == "" {
		status = entities.StatusAll
	}

	options, err := t.services.Dashboard.StatusOptions()
	if err != nil {
		zap.S().Errorf("Error loading alert statuses: %v", err)
		msg.Text = "Error loading the logbook. Please try again later."
		return
	}
	if !containsFold(options, &status) {
		msg.Text = fmt.Sprintf("Unknown alert status '%s'. Choose one of: %s", status, strings.Join(options, ", "))
		return
	}

	entries, err := t.services.Dashboard.Entries(status)
	if err != nil {
		zap.S().Errorf("Error loading logbook entries: %v", err)
		msg.Text = "Error loading the logbook. Please try again later."
		return
	}
	if len(entries) == 0 {
		msg.Text = "No logbook entries found."
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧾 Logbook entries (%s): %d\n\n", status, len(entries)))
	start := 0
	if len(entries) > logbookPageSize {
		start = len(entries) - logbookPageSize
		b.WriteString(fmt.Sprintf("Showing the latest %d.\n", logbookPageSize))
	}
	for _, e := range entries[start:] {
		b.WriteString(FormatEntry(e))
		b.WriteString("\n")
	}
	msg.Text = strings.TrimSpace(b.String())
}

// containsFold finds s in options ignoring case and replaces it with the canonical spelling
func containsFold(options []string, s *string) bool {
	for _, o := range options {
		if strings.EqualFold(o, *s) {
			*s = o
			return true
		}
	}
	return false
}

// handleTrendCommand processes the /trend [parameter] command
func (t *TelegramBot) handleTrendCommand(args string, msg *tgbotapi.MessageConfig) {
	parameter := strings.ToLower(strings.TrimSpace(args))
	if parameter == "" {
		parameter = entities.ParamRiskScore
	}

	points, err := t.services.Dashboard.Trend(parameter)
	if errors.Is(err, repository.ErrUnknownParameter) {
		msg.Text = "Choose one of: temperature, salinity, oxygen, risk_score"
		return
	}
	if err != nil {
		zap.S().Errorf("Error loading %s trend: %v", parameter, err)
		msg.Text = "Error loading the trend. Please try again later."
		return
	}
	msg.Text = FormatTrend(parameter, points)
}

// handleInsightsCommand processes the /insights [location] | [keyword] command
func (t *TelegramBot) handleInsightsCommand(args string, msg *tgbotapi.MessageConfig) {
	location, keyword, _ := strings.Cut(args, "|")
	filter := usecases.InsightFilter{
		Location: strings.TrimSpace(location),
		Keyword:  strings.TrimSpace(keyword),
	}

	insights, err := t.services.Insights.Insights(filter)
	if err != nil {
		zap.S().Errorf("Error loading insights: %v", err)
		msg.Text = "Error loading Harbor Helper insights. Please try again later."
		return
	}
	if len(insights) == 0 {
		locations, _ := t.services.Insights.Locations()
		msg.Text = "No insights match your filter/search. Try different options."
		if len(locations) > 0 {
			msg.Text += "\nLocations: " + strings.Join(locations, ", ")
		}
		return
	}

	var b strings.Builder
	b.WriteString("📰 Harbor Helper\n\n")
	for i, in := range insights {
		if i == insightPageSize {
			b.WriteString(fmt.Sprintf("…and %d more. Narrow it down with /insights [location] | [keyword].", len(insights)-insightPageSize))
			break
		}
		b.WriteString(FormatInsight(in))
		b.WriteString("\n\n")
	}
	msg.Text = strings.TrimSpace(b.String())
}

// handleNonCommand processes regular messages
func (t *TelegramBot) handleNonCommand(message *tgbotapi.Message, msg *tgbotapi.MessageConfig) {
	zap.S().Infof("Received non-command message from user %s: %s", message.From.UserName, message.Text)

	// Bare readings are treated as /assess.
	if _, err := parseReadings(message.Text); err == nil {
		t.handleAssessCommand(message.Text, msg)
		return
	}

	msg.Text = "I don't understand. Use /help to see available commands."
}

// parsePage reads an optional positive count
func parsePage(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
