package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/messages"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoClient mails the site owner through Brevo's transactional API.
type BrevoClient struct {
	apiKey   string
	from     mailbox
	owner    mailbox
	sandbox  bool
	endpoint string
	client   *http.Client
}

type mailbox struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type contactMail struct {
	Sender      mailbox           `json:"sender"`
	To          []mailbox         `json:"to"`
	ReplyTo     mailbox           `json:"replyTo"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// NewBrevoClient returns nil unless an API key, a sender and a recipient for
// owner notifications are all set.
func NewBrevoClient(apiKey, senderEmail, senderName, notifyEmail string, sandbox bool) *BrevoClient {
	apiKey, senderEmail, notifyEmail = strings.TrimSpace(apiKey), strings.TrimSpace(senderEmail), strings.TrimSpace(notifyEmail)
	if apiKey == "" || senderEmail == "" || notifyEmail == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:   apiKey,
		from:     mailbox{Email: senderEmail, Name: senderName},
		owner:    mailbox{Email: notifyEmail},
		sandbox:  sandbox,
		endpoint: brevoEndpoint,
		client:   &http.Client{Timeout: 8 * time.Second},
	}
}

// SendContactNotification e-mails the site owner a copy of msg and returns the
// Brevo message id. Replies go to the visitor.
func (c *BrevoClient) SendContactNotification(ctx context.Context, msg messages.ContactMessage) (string, error) {
	body, err := buildContactNotificationHTML(msg)
	if err != nil {
		return "", fmt.Errorf("render contact notification: %w", err)
	}
	mail := contactMail{
		Sender:      c.from,
		To:          []mailbox{c.owner},
		ReplyTo:     mailbox{Email: msg.Email, Name: msg.Name},
		Subject:     "New portfolio message from " + msg.Name,
		HTMLContent: body,
	}
	if c.sandbox {
		// Brevo validates the request but delivers nothing.
		mail.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}

	raw, err := json.Marshal(mail)
	if err != nil {
		return "", fmt.Errorf("brevo encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo send: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	var out struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode: %w", err)
	}
	return out.MessageID, nil
}
