package market

import (
	"context"
	"fmt"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/config"

	"github.com/go-resty/resty/v2"
)

// CommodityPrice is one terminal row from the UEX commodity price feed.
type CommodityPrice struct {
	CommodityName string   `json:"commodity_name"`
	TerminalName  string   `json:"terminal_name"`
	PriceSell     *float64 `json:"price_sell"`
	PriceBuy      *float64 `json:"price_buy"`
}

// PriceFetcher is what the refresh path needs from the UEX client. The tests
// substitute a fake.
type PriceFetcher interface {
	FetchCommodityPrices(ctx context.Context, commodity string) ([]CommodityPrice, error)
}

// UEXClient talks to the UEX Corp API (api.uexcorp.space).
type UEXClient struct {
	http *resty.Client
}

func NewUEXClient(cfg *config.Config) *UEXClient {
	client := resty.New().
		SetBaseURL(cfg.UEXBaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "sctracker-backend/1.0").
		SetTimeout(15 * time.Second)

	if cfg.UEXAPIToken != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.UEXAPIToken)
	}

	return &UEXClient{http: client}
}

type uexPriceEnvelope struct {
	Status string           `json:"status"`
	Data   []CommodityPrice `json:"data"`
}

// FetchCommodityPrices returns all terminal price rows for one commodity.
func (c *UEXClient) FetchCommodityPrices(ctx context.Context, commodity string) ([]CommodityPrice, error) {
	var envelope uexPriceEnvelope

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("commodity_name", commodity).
		SetResult(&envelope).
		Get("/commodities_prices")
	if err != nil {
		return nil, fmt.Errorf("%w: uex request failed: %v", apperr.ErrExternalUnavailable, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: uex returned HTTP %d", apperr.ErrExternalUnavailable, resp.StatusCode())
	}

	return envelope.Data, nil
}
