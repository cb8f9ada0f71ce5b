package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/c-emman/stock-insights-assistant/internal/domain"
)

// mockMarket 模拟行情仓库并记录调用参数
type mockMarket struct {
	quotes   map[string]*domain.Quote
	profiles map[string]*domain.CompanyProfile
	movers   []domain.Mover
	quoteErr error

	gotIndustry  domain.Industry
	gotDirection domain.Direction
	gotLimit     int
	quoteCalls   []string
}

func (m *mockMarket) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	m.quoteCalls = append(m.quoteCalls, symbol)
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return m.quotes[symbol], nil
}

func (m *mockMarket) GetCompanyProfile(ctx context.Context, symbol string) (*domain.CompanyProfile, error) {
	return m.profiles[symbol], nil
}

func (m *mockMarket) GetQuotes(ctx context.Context, symbols []string) (map[string]*domain.Quote, error) {
	out := make(map[string]*domain.Quote, len(symbols))
	for _, s := range symbols {
		m.quoteCalls = append(m.quoteCalls, s)
		if q := m.quotes[s]; q != nil {
			out[s] = q
		}
	}
	return out, nil
}

func (m *mockMarket) GetTopMovers(ctx context.Context, industry domain.Industry, direction domain.Direction, limit int) ([]domain.Mover, error) {
	m.gotIndustry = industry
	m.gotDirection = direction
	m.gotLimit = limit
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return m.movers, nil
}

// mockParser 返回预设的解析结果
type mockParser struct {
	result domain.ParsedQuery
}

func (p *mockParser) Parse(ctx context.Context, query string) domain.ParsedQuery {
	return p.result
}

// mockComposer 返回可识别的固定文案
type mockComposer struct{}

func (c *mockComposer) ComposeMovers(ctx context.Context, industry domain.Industry, direction domain.Direction, movers []domain.Mover) string {
	return "movers answer"
}

func (c *mockComposer) ComposeQuote(ctx context.Context, symbol string, quote *domain.Quote, profile *domain.CompanyProfile) string {
	return symbol + " quote answer"
}

func (c *mockComposer) ComposeCompare(ctx context.Context, entries []domain.ComparisonEntry) string {
	return "compare answer"
}

func (c *mockComposer) ComposeUnsupported() string {
	return "capabilities answer"
}

func floatPtr(f float64) *float64 { return &f }

func newUseCase(market *mockMarket, parsed domain.ParsedQuery) *AssistantUseCase {
	return NewAssistantUseCase(market, &mockParser{result: parsed}, &mockComposer{}, "", 0, log.DefaultLogger)
}

func TestProcessQueryTopGainers(t *testing.T) {
	market := &mockMarket{movers: []domain.Mover{
		{Symbol: "NVDA", ChangePercent: 5.0},
		{Symbol: "MSFT", ChangePercent: 2.5},
		{Symbol: "AAPL", ChangePercent: 1.0},
	}}
	uc := newUseCase(market, domain.ParsedQuery{
		Intent:    domain.IntentTopGainers,
		Industry:  domain.IndustryTechnology,
		Direction: domain.DirectionGainers,
	})

	answer, err := uc.ProcessQuery(context.Background(), "What are the top gainers in tech?")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}

	// symbols 必须与榜单排名顺序一致
	want := []string{"NVDA", "MSFT", "AAPL"}
	if len(answer.Symbols) != len(want) {
		t.Fatalf("Symbols = %v, want %v", answer.Symbols, want)
	}
	for i, s := range want {
		if answer.Symbols[i] != s {
			t.Errorf("Symbols[%d] = %s, want %s", i, answer.Symbols[i], s)
		}
	}
	if len(answer.Movers) != 3 {
		t.Errorf("Movers = %v, want populated list", answer.Movers)
	}
	if market.gotIndustry != domain.IndustryTechnology || market.gotDirection != domain.DirectionGainers || market.gotLimit != 3 {
		t.Errorf("GetTopMovers called with (%s, %s, %d)", market.gotIndustry, market.gotDirection, market.gotLimit)
	}
}

// 未指明行业时默认查科技行业
func TestProcessQueryMoversDefaultIndustry(t *testing.T) {
	market := &mockMarket{movers: []domain.Mover{{Symbol: "XOM", ChangePercent: -2.0}}}
	uc := newUseCase(market, domain.ParsedQuery{Intent: domain.IntentTopLosers})

	if _, err := uc.ProcessQuery(context.Background(), "show me the losers"); err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	if market.gotIndustry != domain.IndustryTechnology {
		t.Errorf("industry = %s, want technology default", market.gotIndustry)
	}
	if market.gotDirection != domain.DirectionLosers {
		t.Errorf("direction = %s, want losers", market.gotDirection)
	}
}

func TestProcessQueryMoversEmpty(t *testing.T) {
	uc := newUseCase(&mockMarket{}, domain.ParsedQuery{
		Intent:   domain.IntentTopGainers,
		Industry: domain.IndustryEnergy,
	})

	answer, err := uc.ProcessQuery(context.Background(), "top gainers in energy")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	if !strings.Contains(answer.Response, "couldn't find any gainers in energy") {
		t.Errorf("Response = %q", answer.Response)
	}
	if len(answer.Symbols) != 0 || answer.Movers != nil {
		t.Errorf("expected empty envelope, got %+v", answer)
	}
}

func TestProcessQueryQuote(t *testing.T) {
	market := &mockMarket{
		quotes: map[string]*domain.Quote{
			"AAPL": {Symbol: "AAPL", CurrentPrice: 182.52, ChangePercent: floatPtr(1.34)},
		},
		profiles: map[string]*domain.CompanyProfile{
			"AAPL": {Symbol: "AAPL", Name: "Apple Inc"},
		},
	}
	uc := newUseCase(market, domain.ParsedQuery{Intent: domain.IntentQuote, Symbols: []string{"AAPL"}})

	answer, err := uc.ProcessQuery(context.Background(), "How is AAPL doing?")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	if answer.Response == "" {
		t.Error("Response is empty")
	}
	if len(answer.Symbols) != 1 || answer.Symbols[0] != "AAPL" {
		t.Errorf("Symbols = %v, want [AAPL]", answer.Symbols)
	}
}

func TestProcessQueryQuoteNoSymbol(t *testing.T) {
	uc := newUseCase(&mockMarket{}, domain.ParsedQuery{Intent: domain.IntentQuote})

	answer, err := uc.ProcessQuery(context.Background(), "How is some stock doing?")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	if !strings.Contains(strings.ToLower(answer.Response), "couldn't identify") {
		t.Errorf("Response = %q", answer.Response)
	}
	if len(answer.Symbols) != 0 {
		t.Errorf("Symbols = %v, want empty", answer.Symbols)
	}
}

// 行情缺失时给出固定解释文案，symbols 仍指向问的那只股票
func TestProcessQueryQuoteNoData(t *testing.T) {
	uc := newUseCase(&mockMarket{}, domain.ParsedQuery{Intent: domain.IntentQuote, Symbols: []string{"ZZZZ"}})

	answer, err := uc.ProcessQuery(context.Background(), "How is ZZZZ doing?")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	if !strings.Contains(answer.Response, "couldn't fetch data for ZZZZ") {
		t.Errorf("Response = %q", answer.Response)
	}
	if len(answer.Symbols) != 1 || answer.Symbols[0] != "ZZZZ" {
		t.Errorf("Symbols = %v, want [ZZZZ]", answer.Symbols)
	}
}

// 限流错误必须原样穿透编排层，不得吞成空回答
func TestProcessQueryQuoteRateLimited(t *testing.T) {
	market := &mockMarket{quoteErr: domain.ErrRateLimited}
	uc := newUseCase(market, domain.ParsedQuery{Intent: domain.IntentQuote, Symbols: []string{"AAPL"}})

	_, err := uc.ProcessQuery(context.Background(), "How is AAPL doing?")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("ProcessQuery() error = %v, want ErrRateLimited", err)
	}
}

func TestProcessQueryCompare(t *testing.T) {
	market := &mockMarket{
		quotes: map[string]*domain.Quote{
			"AAPL": {Symbol: "AAPL", CurrentPrice: 182.52, ChangePercent: floatPtr(1.34)},
			"TSLA": {Symbol: "TSLA", CurrentPrice: 248.50, ChangePercent: floatPtr(2.10)},
		},
	}
	uc := newUseCase(market, domain.ParsedQuery{
		Intent:  domain.IntentCompare,
		Symbols: []string{"AAPL", "TSLA", "MSFT"},
	})

	answer, err := uc.ProcessQuery(context.Background(), "Compare AAPL, TSLA and MSFT")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	// 只对比前两只，多余的忽略
	if len(answer.Symbols) != 2 || answer.Symbols[0] != "AAPL" || answer.Symbols[1] != "TSLA" {
		t.Errorf("Symbols = %v, want [AAPL TSLA]", answer.Symbols)
	}
	for _, s := range market.quoteCalls {
		if s == "MSFT" {
			t.Error("MSFT should not be fetched")
		}
	}
}

func TestProcessQueryCompareTooFewSymbols(t *testing.T) {
	uc := newUseCase(&mockMarket{}, domain.ParsedQuery{Intent: domain.IntentCompare, Symbols: []string{"AAPL"}})

	answer, err := uc.ProcessQuery(context.Background(), "Compare AAPL and ???")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	if !strings.Contains(answer.Response, "at least two stocks") {
		t.Errorf("Response = %q", answer.Response)
	}
}

func TestProcessQueryUnsupported(t *testing.T) {
	uc := newUseCase(&mockMarket{}, domain.ParsedQuery{Intent: domain.IntentUnsupported})

	answer, err := uc.ProcessQuery(context.Background(), "What's the weather like?")
	if err != nil {
		t.Fatalf("ProcessQuery() error = %v", err)
	}
	if answer.Response != "capabilities answer" {
		t.Errorf("Response = %q, want fixed capability text", answer.Response)
	}
	if len(answer.Symbols) != 0 {
		t.Errorf("Symbols = %v, want empty", answer.Symbols)
	}
}
