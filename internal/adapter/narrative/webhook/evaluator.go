// Package webhook forwards narrative evaluation requests to an external
// storylet service over HTTP.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"semester/internal/app/ports"
	"semester/internal/platform/logging"
)

const DefaultTimeout = 2 * time.Second

var ErrMissingURL = errors.New("narrative webhook url is required")

type Config struct {
	URL     string
	Timeout time.Duration
	Logger  *log.Logger
}

type Evaluator struct {
	url     string
	timeout time.Duration
	client  *client.Client
	logger  *log.Logger
}

type payload struct {
	PlayerID string `json:"player_id"`
	Day      int    `json:"day"`
	Date     string `json:"date,omitempty"`
}

func New(cfg Config) (*Evaluator, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c, err := client.NewClient(client.WithDialTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("create narrative client: %w", err)
	}
	return &Evaluator{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		client:  c,
		logger:  logging.OrDiscard(cfg.Logger),
	}, nil
}

func (e *Evaluator) Evaluate(ctx context.Context, req ports.NarrativeRequest) error {
	body, err := json.Marshal(payload{PlayerID: req.PlayerID, Day: req.Day, Date: req.Date})
	if err != nil {
		return fmt.Errorf("encode narrative request: %w", err)
	}

	httpReq := protocol.AcquireRequest()
	httpResp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(httpReq)
	defer protocol.ReleaseResponse(httpResp)

	httpReq.SetMethod(consts.MethodPost)
	httpReq.SetRequestURI(e.url)
	httpReq.Header.SetContentTypeBytes([]byte("application/json"))
	httpReq.SetBody(body)

	started := time.Now()
	if err := e.client.DoTimeout(ctx, httpReq, httpResp, e.timeout); err != nil {
		return fmt.Errorf("post narrative request: %w", err)
	}
	status := httpResp.StatusCode()
	e.logger.Debug("narrative webhook", "player", req.PlayerID, "day", req.Day, "status", status, "took", time.Since(started))
	if status < 200 || status >= 300 {
		return fmt.Errorf("narrative webhook returned status %d", status)
	}
	return nil
}

var _ ports.NarrativeEvaluator = (*Evaluator)(nil)
