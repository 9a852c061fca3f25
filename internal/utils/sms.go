package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SMSClient talks to the external SMS relay. Carrier dispatch is the relay's
// job; this client only hands the message over (or logs it in dry-run).
type SMSClient struct {
	RelayURL string
	APIKey   string
	Sender   string
	DryRun   bool

	client *http.Client
}

type SendSMSResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewSMSClient(relayURL, apiKey, sender string, dryRun bool) *SMSClient {
	return &SMSClient{
		RelayURL: relayURL,
		APIKey:   apiKey,
		Sender:   sender,
		DryRun:   dryRun,
		client:   &http.Client{},
	}
}

// SendSMS delivers text to the given phone via the relay, or logs it when
// dry-run is on (or no relay is configured).
func (c *SMSClient) SendSMS(to, text string) (*SendSMSResponse, error) {
	if c.DryRun || c.RelayURL == "" || c.APIKey == "" {
		fmt.Printf("📩 [sms][dry-run] to=%s sender=%q text=%q\n", to, c.Sender, text)
		return &SendSMSResponse{Code: 0}, nil
	}

	form := url.Values{
		"apiKey":    {c.APIKey},
		"recipient": {to},
		"text":      {text},
	}
	if c.Sender != "" {
		form.Set("from", c.Sender)
	}

	resp, err := c.client.Post(c.RelayURL, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sms relay request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sms relay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sms relay status %d: %s", resp.StatusCode, string(body))
	}

	var out SendSMSResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("sms relay decode: %w", err)
	}
	return &out, nil
}
