package clients

import (
	"context"
	"time"

	"go.uber.org/zap"

	"metrotram/backend/services/tram-bot/internal/models"
)

// BoardClient downloads the tram status board page.
type BoardClient struct {
	base   *BaseClient
	url    string
	logger *zap.Logger
}

// NewBoardClient returns client for the board page at url.
func NewBoardClient(url string, base *BaseClient, logger *zap.Logger) *BoardClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardClient{base: base, url: url, logger: logger}
}

// Fetch returns the raw HTML of the board page. Any transport failure or
// non-2xx status is reported as *models.NetworkError.
func (c *BoardClient) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	status, body, err := c.base.Get(ctx, c.url, map[string]string{"Accept": "text/html"})
	if err != nil {
		c.logger.Warn("board fetch failed", zap.String("url", c.url), zap.Error(err))
		return "", &models.NetworkError{URL: c.url, Err: err}
	}
	if status < 200 || status > 299 {
		c.logger.Warn("board fetch bad status", zap.String("url", c.url), zap.Int("status", status))
		return "", &models.NetworkError{URL: c.url, StatusCode: status}
	}
	c.logger.Debug("board fetched",
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)
	return string(body), nil
}
