package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/c-emman/stock-insights-assistant/internal/domain"
	"github.com/c-emman/stock-insights-assistant/internal/repo"
)

const defaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// errNoData 软失败：行情源没有可用数据（404、参数错误、响应不可解析等）
var errNoData = errors.New("finnhub: no data")

// FinnhubConfig Finnhub 客户端配置
type FinnhubConfig struct {
	APIKey     string
	BaseURL    string
	MaxRetries int           // 限流后的额外重试次数，默认 2
	BaseDelay  time.Duration // 退避基准延迟，默认 1s
	Timeout    time.Duration // 单次请求超时，默认 10s
	RPM        int           // 对行情源的每分钟请求上限，0 表示不限流
	QPS        int           // 限流突发量
}

// FinnhubClient Finnhub API 客户端
// 所有请求统一经过 doGet 的限流与重试策略，调用点不各自实现
type FinnhubClient struct {
	cfg     FinnhubConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *log.Helper
}

// NewFinnhubClient 创建 Finnhub 客户端
func NewFinnhubClient(cfg FinnhubConfig, logger log.Logger) repo.MarketData {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultFinnhubBaseURL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RPM > 0 {
		burst := cfg.QPS
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), burst)
	}

	return &FinnhubClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		log:     log.NewHelper(logger),
	}
}

// quoteDTO Finnhub /quote 响应
// dp 和 t 在部分标的上会缺失，用指针区分
type quoteDTO struct {
	Current       float64  `json:"c"`
	Change        float64  `json:"d"`
	ChangePercent *float64 `json:"dp"`
	High          float64  `json:"h"`
	Low           float64  `json:"l"`
	Open          float64  `json:"o"`
	PreviousClose float64  `json:"pc"`
	Timestamp     *int64   `json:"t"`
}

// profileDTO Finnhub /stock/profile2 响应
type profileDTO struct {
	Name                 string  `json:"name"`
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	IPO                  string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	Logo                 string  `json:"logo"`
	Phone                string  `json:"phone"`
	WebURL               string  `json:"weburl"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
}

// GetQuote 获取单只股票实时行情
// 行情源报零价视为无可交易数据，返回 (nil, nil)；只有限流耗尽才返回错误
func (c *FinnhubClient) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var dto quoteDTO
	if err := c.doGet(ctx, "/quote", url.Values{"symbol": {symbol}}, &dto); err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return nil, err
		}
		c.log.Warnf("get quote [%s] failed: %v", symbol, err)
		return nil, nil
	}

	if dto.Current == 0 {
		return nil, nil
	}

	return &domain.Quote{
		Symbol:        symbol,
		CurrentPrice:  dto.Current,
		Change:        dto.Change,
		ChangePercent: dto.ChangePercent,
		High:          dto.High,
		Low:           dto.Low,
		OpenPrice:     dto.Open,
		PreviousClose: dto.PreviousClose,
		Timestamp:     dto.Timestamp,
	}, nil
}

// GetCompanyProfile 获取公司概况，行情源未返回公司名视为无档案
func (c *FinnhubClient) GetCompanyProfile(ctx context.Context, symbol string) (*domain.CompanyProfile, error) {
	var dto profileDTO
	if err := c.doGet(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &dto); err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return nil, err
		}
		c.log.Warnf("get profile [%s] failed: %v", symbol, err)
		return nil, nil
	}

	if dto.Name == "" {
		return nil, nil
	}

	return &domain.CompanyProfile{
		Symbol:               symbol,
		Name:                 dto.Name,
		Country:              dto.Country,
		Currency:             dto.Currency,
		Exchange:             dto.Exchange,
		IPO:                  dto.IPO,
		MarketCapitalization: dto.MarketCapitalization,
		ShareOutstanding:     dto.ShareOutstanding,
		Logo:                 dto.Logo,
		Phone:                dto.Phone,
		WebURL:               dto.WebURL,
		Industry:             dto.FinnhubIndustry,
	}, nil
}

// GetQuotes 顺序批量获取行情
// 中途被限流时返回已取得的部分结果，让调用方优雅降级而不是丢掉全部数据
func (c *FinnhubClient) GetQuotes(ctx context.Context, symbols []string) (map[string]*domain.Quote, error) {
	quotes := make(map[string]*domain.Quote, len(symbols))
	for _, symbol := range symbols {
		quote, err := c.GetQuote(ctx, symbol)
		if err != nil {
			c.log.Warnf("quote batch interrupted by rate limit: %d/%d fetched", len(quotes), len(symbols))
			return quotes, nil
		}
		if quote != nil {
			quotes[symbol] = quote
		}
	}
	return quotes, nil
}

// GetTopMovers 按行业取涨跌幅榜
// 未知行业返回空列表；缺行情或缺涨跌幅的标的直接丢弃
// 按行业成分股原始顺序装配后做稳定排序，涨跌幅相同的保持原始顺序
func (c *FinnhubClient) GetTopMovers(ctx context.Context, industry domain.Industry, direction domain.Direction, limit int) ([]domain.Mover, error) {
	symbols := SymbolsForIndustry(industry)
	if len(symbols) == 0 {
		c.log.Warnf("unknown industry [%s], no symbols to rank", industry)
		return nil, nil
	}

	quotes, err := c.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, err
	}

	movers := make([]domain.Mover, 0, len(quotes))
	for _, symbol := range symbols {
		quote := quotes[symbol]
		if quote == nil || quote.ChangePercent == nil {
			continue
		}
		movers = append(movers, domain.Mover{
			Symbol:        symbol,
			CurrentPrice:  quote.CurrentPrice,
			Change:        quote.Change,
			ChangePercent: *quote.ChangePercent,
			High:          quote.High,
			Low:           quote.Low,
		})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		if direction == domain.DirectionLosers {
			return movers[i].ChangePercent < movers[j].ChangePercent
		}
		return movers[i].ChangePercent > movers[j].ChangePercent
	})

	if limit > 0 && len(movers) > limit {
		movers = movers[:limit]
	}
	return movers, nil
}

// doGet 执行一次带限流与重试的 GET 请求
// 限流(429)：最多再试 MaxRetries 次，第 i 次重试前等待 BaseDelay*2^i，仍失败则返回 ErrRateLimited
// 瞬时错误（连接失败、超时、5xx）：固定等待 BaseDelay 再试一次
// 其余错误不重试，直接返回软失败
func (c *FinnhubClient) doGet(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("token", c.cfg.APIKey)
	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()

	attempt := 0
	transientRetried := false

	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("limiter wait: %w", err)
			}
		}

		status, body, err := c.fetch(ctx, reqURL)
		if err != nil || status >= http.StatusInternalServerError {
			if !transientRetried {
				transientRetried = true
				c.log.Warnf("transient error on %s (status=%d err=%v), retrying once", path, status, err)
				if serr := sleepCtx(ctx, c.cfg.BaseDelay); serr != nil {
					return serr
				}
				continue
			}
			if err != nil {
				return fmt.Errorf("%w: %v", errNoData, err)
			}
			return fmt.Errorf("%w: status %d", errNoData, status)
		}

		if status == http.StatusTooManyRequests {
			if attempt < c.cfg.MaxRetries {
				delay := c.cfg.BaseDelay * time.Duration(1<<attempt)
				attempt++
				c.log.Warnf("rate limited on %s, waiting %v before retry (%d/%d)", path, delay, attempt, c.cfg.MaxRetries)
				if serr := sleepCtx(ctx, delay); serr != nil {
					return serr
				}
				continue
			}
			return fmt.Errorf("finnhub %s: %w", path, domain.ErrRateLimited)
		}

		if status >= http.StatusBadRequest {
			return fmt.Errorf("%w: status %d", errNoData, status)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: unmarshal: %v", errNoData, err)
		}
		return nil
	}
}

// fetch 单次 HTTP 请求，返回状态码与响应体
func (c *FinnhubClient) fetch(ctx context.Context, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// sleepCtx 可取消的等待
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
