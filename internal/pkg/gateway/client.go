package gateway

import (
	"Homeport/internal/api/config"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// 外发通知渠道
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// Client 外部通知网关客户端。网关失败只影响旁路通知，不影响主流程。
type Client struct {
	http *resty.Client
}

func NewClient(cfg config.NotifyGatewayConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("X-Api-Key", cfg.ApiKey)

	return &Client{http: c}
}

type dispatchReq struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
}

// Dispatch 通过网关按渠道下发一条通知
func (s *Client) Dispatch(ctx context.Context, channel, recipient, subject, body string) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(&dispatchReq{
			Channel:   channel,
			Recipient: recipient,
			Subject:   subject,
			Body:      body,
		}).
		Post("/v1/dispatch")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("notify gateway returned %s", resp.Status())
	}
	return nil
}
