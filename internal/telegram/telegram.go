package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"imobiliaria/server/internal/models"
)

// Config holds the bot credentials and basic settings.
type Config struct {
	IsEnabled bool
	BotToken  string
	ChatID    string
}

type Service struct {
	logger *logrus.Logger
	client *http.Client
	config Config
	apiURL string
}

func NewService(logger *logrus.Logger, config Config) *Service {
	return &Service{
		logger: logger,
		config: config,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiURL: "https://api.telegram.org",
	}
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiURL, s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyIngestion sends a notification about one successful ingestion.
func (s *Service) NotifyIngestion(property *models.Property, created bool) error {
	if !s.config.IsEnabled {
		return nil
	}

	snapshot := property.LatestSnapshot()
	if snapshot == nil {
		return errors.New("property has no snapshot to report")
	}

	title := "<b>Novo imóvel no catálogo!</b>"
	if !created {
		title = "<b>Nova observação de mercado</b>"
	}

	message := fmt.Sprintf(
		"%s\n\n<b>%s</b>\nBairro: %s\nPreço: R$ %.0f (R$ %.0f/m²)\nStatus: %s\nSnapshots: %d",
		title,
		property.BasicInfo.Title,
		property.Location.Neighborhood,
		snapshot.PriceBRL,
		snapshot.PricePerM2BRL,
		snapshot.Status,
		len(property.Snapshots),
	)

	return s.SendMessage(message)
}
