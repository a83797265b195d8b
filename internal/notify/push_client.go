package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/repository"
	"github.com/imcoolthanyou/Event-Hive/pkg/config"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
)

// PushClient implements Notifier against an HTTP push-delivery gateway.
// Delivery fans out to every device token registered for the user.
type PushClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	tokens  repository.DeviceTokenRepository
	log     *logger.Logger
}

// NewPushClient creates a new PushClient
func NewPushClient(cfg *config.PushConfig, tokens repository.DeviceTokenRepository) *PushClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PushClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     logger.Get(),
	}
}

// RequestPermission treats a user with no registered device tokens as
// having denied notifications.
func (c *PushClient) RequestPermission(ctx context.Context, userID string) (bool, error) {
	tokens, err := c.tokens.GetByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(tokens) > 0, nil
}

type pushRequest struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Dispatch delivers the notification to every device registered for the user
func (c *PushClient) Dispatch(ctx context.Context, n *Notification) error {
	tokens, err := c.tokens.GetByUser(ctx, n.UserID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return domain.ErrPermissionDenied
	}

	var lastErr error
	delivered := 0
	for _, t := range tokens {
		if err := c.send(ctx, t.Token, n); err != nil {
			lastErr = err
			c.log.Warn("push delivery failed for device",
				zap.String("user_id", n.UserID), zap.Error(err))
			continue
		}
		delivered++
	}

	if delivered == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

func (c *PushClient) send(ctx context.Context, token string, n *Notification) error {
	payload, err := json.Marshal(&pushRequest{
		Token: token,
		Title: n.Title,
		Body:  n.Body,
		Data:  n.Data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/push", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return domain.ErrPermissionDenied
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
