package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Sagexd08/celo-automator/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CoinGeckoClient defines the interface for the CoinGecko simple/price API.
type CoinGeckoClient interface {
	// QueryUSDPrice looks up the quote for id. found is false when the feed
	// has no entry for the id; err reports transport or decoding failures.
	QueryUSDPrice(ctx context.Context, id string) (price float64, found bool, err error)
}

// coinGeckoClientImpl is the implementation of CoinGeckoClient.
type coinGeckoClientImpl struct {
	client     *fasthttp.Client
	baseURL    string
	vsCurrency string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewCoinGeckoClient creates a new instance of coinGeckoClientImpl.
func NewCoinGeckoClient(baseURL, vsCurrency string, timeout time.Duration, logger *zap.Logger) CoinGeckoClient {
	return &coinGeckoClientImpl{
		client:     &fasthttp.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		vsCurrency: vsCurrency,
		timeout:    timeout,
		logger:     logger.Named("CoinGeckoClient"),
	}
}

// QueryUSDPrice implements the CoinGeckoClient interface.
func (c *coinGeckoClientImpl) QueryUSDPrice(ctx context.Context, id string) (float64, bool, error) {
	if id == "" {
		return 0, false, fmt.Errorf("price id cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.baseURL, url.QueryEscape(id), url.QueryEscape(c.vsCurrency))

	c.logger.Debug("Requesting price from CoinGecko", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			metrics.PriceFeedRequestsTotal.WithLabelValues("error").Inc()
			return 0, false, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			metrics.PriceFeedRequestsTotal.WithLabelValues("error").Inc()
			return 0, false, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.PriceFeedRequestsTotal.WithLabelValues("error").Inc()
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return 0, false, fmt.Errorf("CoinGecko request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(rawBody))
	}

	// Response shape: { "<id>": { "<vsCurrency>": <number> } }
	var quotes map[string]map[string]float64
	if err := json.Unmarshal(rawBody, &quotes); err != nil {
		metrics.PriceFeedRequestsTotal.WithLabelValues("error").Inc()
		return 0, false, fmt.Errorf("failed to unmarshal CoinGecko response from %s: %w", requestURL, err)
	}

	entry, ok := quotes[id]
	if !ok {
		metrics.PriceFeedRequestsTotal.WithLabelValues("miss").Inc()
		c.logger.Debug("CoinGecko has no entry for id", zap.String("id", id))
		return 0, false, nil
	}
	price, ok := entry[c.vsCurrency]
	if !ok {
		metrics.PriceFeedRequestsTotal.WithLabelValues("miss").Inc()
		c.logger.Debug("CoinGecko entry missing vs currency", zap.String("id", id), zap.String("vsCurrency", c.vsCurrency))
		return 0, false, nil
	}

	metrics.PriceFeedRequestsTotal.WithLabelValues("ok").Inc()
	return price, true, nil
}
