package tcmb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/installment-service/internal/config"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/repository"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BaseCurrency is the currency TCMB quotes every rate in
const BaseCurrency = "TRY"

const cacheKey = "tcmb:today"

// TCMBClient fetches daily exchange rates from the Central Bank of the Republic of Turkey
type TCMBClient struct {
	url    string
	client *http.Client
	cache  repository.CacheRepository
	ttl    time.Duration
	log    *logrus.Logger
}

// NewTCMBClient initializes a new TCMB client
func NewTCMBClient(cfg *config.Config, cache repository.CacheRepository, log *logrus.Logger) *TCMBClient {
	return &TCMBClient{
		url: cfg.TCMBURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
		ttl:   cfg.RateCacheTTL,
		log:   log,
	}
}

// fetch downloads the raw XML bulletin
func (c *TCMBClient) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("TCMB XML response: %d bytes", len(body))
	return body, nil
}

// ParseRates extracts the forex selling rate of every currency in the bulletin
func ParseRates(rawBody []byte) ([]models.ExchangeRate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	currencies := doc.FindElements("//Tarih_Date/Currency")
	if len(currencies) == 0 {
		return nil, fmt.Errorf("no currency data found in XML")
	}

	rates := make([]models.ExchangeRate, 0, len(currencies))
	for _, el := range currencies {
		code := el.SelectAttrValue("CurrencyCode", el.SelectAttrValue("Kod", ""))
		if code == "" {
			continue
		}
		sellingEl := el.FindElement("./ForexSelling")
		if sellingEl == nil || strings.TrimSpace(sellingEl.Text()) == "" {
			// Some currencies only carry cross rates.
			continue
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(sellingEl.Text()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", code, err)
		}

		unit := 1
		if unitEl := el.FindElement("./Unit"); unitEl != nil {
			if u, err := strconv.Atoi(strings.TrimSpace(unitEl.Text())); err == nil && u > 0 {
				unit = u
			}
		}

		rates = append(rates, models.ExchangeRate{Code: code, Unit: unit, Rate: rate})
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("no forex selling rates found in XML")
	}
	return rates, nil
}

// GetRates returns today's rates, served from cache while fresh
func (c *TCMBClient) GetRates(ctx context.Context) ([]models.ExchangeRate, error) {
	if cached, ok := c.cache.Get(ctx, cacheKey); ok {
		rates, err := ParseRates([]byte(cached))
		if err == nil {
			return rates, nil
		}
		c.log.Warnf("Discarding cached TCMB bulletin: %v", err)
	}

	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := ParseRates(body)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, cacheKey, string(body), c.ttl); err != nil {
		c.log.Warnf("Failed to cache TCMB bulletin: %v", err)
	}

	c.log.Infof("Retrieved %d exchange rates from TCMB", len(rates))
	return rates, nil
}

// Convert expresses amount in currency from as an amount in currency to,
// going through TRY. The result is rounded to cents.
func Convert(amount decimal.Decimal, from, to string, rates []models.ExchangeRate) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	inTRY, err := toTRY(amount, from, rates)
	if err != nil {
		return decimal.Zero, err
	}
	if to == BaseCurrency {
		return inTRY.Round(2), nil
	}
	perUnit, err := perUnitRate(to, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return inTRY.DivRound(perUnit, 8).Round(2), nil
}

func toTRY(amount decimal.Decimal, code string, rates []models.ExchangeRate) (decimal.Decimal, error) {
	if code == BaseCurrency {
		return amount, nil
	}
	perUnit, err := perUnitRate(code, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(perUnit), nil
}

func perUnitRate(code string, rates []models.ExchangeRate) (decimal.Decimal, error) {
	for _, r := range rates {
		if r.Code == code {
			if !r.Rate.IsPositive() {
				return decimal.Zero, fmt.Errorf("rate for %s is not positive", code)
			}
			return r.Rate.DivRound(decimal.NewFromInt(int64(r.Unit)), 8), nil
		}
	}
	return decimal.Zero, fmt.Errorf("no exchange rate for %s", code)
}
