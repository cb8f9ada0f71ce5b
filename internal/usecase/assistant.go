package usecase

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/c-emman/stock-insights-assistant/internal/domain"
	"github.com/c-emman/stock-insights-assistant/internal/repo"
)

// AssistantUseCase 查询编排：解析意图 -> 按意图取数 -> 生成回答
// 除行情源限流外，所有下游失败都在这里收敛成可读的回答信封
type AssistantUseCase struct {
	market   repo.MarketData
	parser   repo.QueryParser
	composer repo.AnswerComposer

	defaultIndustry domain.Industry
	moversLimit     int

	log *log.Helper
}

// NewAssistantUseCase 创建编排实例
func NewAssistantUseCase(market repo.MarketData, parser repo.QueryParser, composer repo.AnswerComposer, defaultIndustry domain.Industry, moversLimit int, logger log.Logger) *AssistantUseCase {
	if defaultIndustry == "" {
		defaultIndustry = domain.IndustryTechnology
	}
	if moversLimit <= 0 {
		moversLimit = 3
	}
	return &AssistantUseCase{
		market:          market,
		parser:          parser,
		composer:        composer,
		defaultIndustry: defaultIndustry,
		moversLimit:     moversLimit,
		log:             log.NewHelper(logger),
	}
}

// ProcessQuery 处理一条用户查询，单请求单趟，无内部状态
func (uc *AssistantUseCase) ProcessQuery(ctx context.Context, query string) (*domain.Answer, error) {
	parsed := uc.parser.Parse(ctx, query)
	uc.log.Infof("query classified: intent=%s industry=%s symbols=%v", parsed.Intent, parsed.Industry, parsed.Symbols)

	switch parsed.Intent {
	case domain.IntentTopGainers:
		return uc.handleMovers(ctx, parsed.Industry, domain.DirectionGainers)

	case domain.IntentTopLosers:
		return uc.handleMovers(ctx, parsed.Industry, domain.DirectionLosers)

	case domain.IntentQuote:
		if len(parsed.Symbols) == 0 {
			return &domain.Answer{
				Response: "I couldn't identify a stock symbol in your query. Please specify a stock (e.g., 'How is AAPL doing?')",
				Symbols:  []string{},
			}, nil
		}
		return uc.handleQuote(ctx, parsed.Symbols[0])

	case domain.IntentCompare:
		if len(parsed.Symbols) < 2 {
			return &domain.Answer{
				Response: "Please specify at least two stocks to compare (e.g., 'Compare AAPL and TSLA')",
				Symbols:  []string{},
			}, nil
		}
		return uc.handleCompare(ctx, parsed.Symbols[:2])

	default:
		return &domain.Answer{
			Response: uc.composer.ComposeUnsupported(),
			Symbols:  []string{},
		}, nil
	}
}

// handleMovers 涨跌幅榜，未指明行业时默认科技行业
func (uc *AssistantUseCase) handleMovers(ctx context.Context, industry domain.Industry, direction domain.Direction) (*domain.Answer, error) {
	if industry == "" {
		industry = uc.defaultIndustry
	}

	movers, err := uc.market.GetTopMovers(ctx, industry, direction, uc.moversLimit)
	if err != nil {
		return nil, err
	}

	if len(movers) == 0 {
		word := "gainers"
		if direction == domain.DirectionLosers {
			word = "losers"
		}
		return &domain.Answer{
			Response: fmt.Sprintf("Sorry, I couldn't find any %s in %s at the moment.", word, industry),
			Symbols:  []string{},
		}, nil
	}

	symbols := make([]string, 0, len(movers))
	for _, m := range movers {
		symbols = append(symbols, m.Symbol)
	}

	return &domain.Answer{
		Response: uc.composer.ComposeMovers(ctx, industry, direction, movers),
		Symbols:  symbols,
		Movers:   movers,
	}, nil
}

// handleQuote 单股行情，公司概况尽力获取
func (uc *AssistantUseCase) handleQuote(ctx context.Context, symbol string) (*domain.Answer, error) {
	quote, err := uc.market.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return &domain.Answer{
			Response: fmt.Sprintf("Sorry, I couldn't fetch data for %s.", symbol),
			Symbols:  []string{symbol},
		}, nil
	}

	profile, err := uc.market.GetCompanyProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		Response: uc.composer.ComposeQuote(ctx, symbol, quote, profile),
		Symbols:  []string{symbol},
	}, nil
}

// handleCompare 两股对比，多余的代码忽略，缺行情的标的不进对比数据
func (uc *AssistantUseCase) handleCompare(ctx context.Context, symbols []string) (*domain.Answer, error) {
	quotes, err := uc.market.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ComparisonEntry, 0, len(symbols))
	for _, symbol := range symbols {
		quote := quotes[symbol]
		if quote == nil {
			continue
		}
		entry := domain.ComparisonEntry{
			Symbol:        symbol,
			CurrentPrice:  quote.CurrentPrice,
			Change:        quote.Change,
			ChangePercent: quote.ChangePercent,
			High:          quote.High,
			Low:           quote.Low,
			OpenPrice:     quote.OpenPrice,
		}
		profile, err := uc.market.GetCompanyProfile(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			entry.Name = profile.Name
			entry.MarketCap = profile.MarketCapitalization
		}
		entries = append(entries, entry)
	}

	return &domain.Answer{
		Response: uc.composer.ComposeCompare(ctx, entries),
		Symbols:  symbols,
	}, nil
}
