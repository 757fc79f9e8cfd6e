// utils/sms_service.go
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tukprojects/projects_backend/config"
)

// SMSService sends messages through an HTTP bulk-SMS gateway. It satisfies
// the auth core's SMSSender interface.
type SMSService struct {
	Username string
	Password string
	SenderID string
	APIPath  string
	Client   *http.Client
}

// SMSResponse represents the gateway response
type SMSResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"message_id"`
		Cost      string `json:"cost"`
	} `json:"data"`
}

// NewSMSService creates a new SMS service instance from configuration
func NewSMSService(cfg *config.Config) *SMSService {
	return &SMSService{
		Username: cfg.SMSUsername,
		Password: cfg.SMSPassword,
		SenderID: cfg.SMSSenderID,
		APIPath:  cfg.SMSAPIPath,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send delivers a message to the phone number via the gateway.
func (s *SMSService) Send(phoneNumber, message string) error {
	if s.APIPath == "" {
		return errors.New("SMS gateway is not configured")
	}

	params := url.Values{}
	params.Set("username", s.Username)
	params.Set("password", s.Password)
	params.Set("senderid", s.SenderID)
	params.Set("destination", phoneNumber)
	params.Set("message", message)

	fullURL := fmt.Sprintf("%s?%s", s.APIPath, params.Encode())

	req, err := http.NewRequest("POST", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS API returned status %d: %s", resp.StatusCode, string(body))
	}

	var smsResp SMSResponse
	if err := json.Unmarshal(body, &smsResp); err != nil {
		// Some gateways reply with a plain-text acknowledgement
		responseStr := strings.ToLower(strings.TrimSpace(string(body)))
		if strings.Contains(responseStr, "success") || strings.Contains(responseStr, "sent") {
			log.Printf("SMS sent to %s (non-JSON response)", phoneNumber)
			return nil
		}
		return fmt.Errorf("failed to parse SMS response: %w", err)
	}

	if smsResp.Status == "success" || smsResp.Status == "sent" {
		log.Printf("SMS sent to %s, message id: %s", phoneNumber, smsResp.Data.MessageID)
		return nil
	}

	return fmt.Errorf("SMS sending failed: %s", smsResp.Message)
}
