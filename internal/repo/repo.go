package repo

import (
	"context"

	"github.com/c-emman/stock-insights-assistant/internal/domain"
)

// MarketData 行情数据仓库接口
// 除限流（domain.ErrRateLimited）外的失败一律软失败：返回 nil 而不是错误
type MarketData interface {
	// GetQuote 获取单只股票实时行情，无数据时返回 (nil, nil)
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	// GetCompanyProfile 获取公司概况，无数据时返回 (nil, nil)
	GetCompanyProfile(ctx context.Context, symbol string) (*domain.CompanyProfile, error)
	// GetQuotes 顺序批量获取行情；中途被限流时返回已取得的部分结果而不报错
	GetQuotes(ctx context.Context, symbols []string) (map[string]*domain.Quote, error)
	// GetTopMovers 按行业取涨跌幅榜，未知行业返回空列表
	GetTopMovers(ctx context.Context, industry domain.Industry, direction domain.Direction, limit int) ([]domain.Mover, error)
}

// QueryParser 自然语言查询解析接口
type QueryParser interface {
	// Parse 解析用户查询；任何失败都退化为 Intent=Unsupported，不向上抛错
	Parse(ctx context.Context, query string) domain.ParsedQuery
}

// AnswerComposer 回答生成接口，按意图分策略
// 每个策略在模型调用失败时必须给出确定性的兜底文案
type AnswerComposer interface {
	ComposeMovers(ctx context.Context, industry domain.Industry, direction domain.Direction, movers []domain.Mover) string
	ComposeQuote(ctx context.Context, symbol string, quote *domain.Quote, profile *domain.CompanyProfile) string
	ComposeCompare(ctx context.Context, entries []domain.ComparisonEntry) string
	// ComposeUnsupported 返回固定的能力说明，不经过模型
	ComposeUnsupported() string
}
