package data

import "github.com/c-emman/stock-insights-assistant/internal/domain"

// industrySymbols 行业到成分股的静态映射，属于只读参考数据
// 榜单排序的稳定性依赖这里的原始顺序，不要随意调整
var industrySymbols = map[domain.Industry][]string{
	domain.IndustryTechnology: {"AAPL", "MSFT", "GOOGL", "META", "NVDA", "TSLA", "AMD", "INTC", "CRM", "ORCL"},
	domain.IndustryFinance:    {"JPM", "BAC", "WFC", "GS", "MS", "C", "BLK", "AXP", "V", "MA"},
	domain.IndustryHealthcare: {"JNJ", "UNH", "PFE", "ABBV", "MRK", "TMO", "ABT", "LLY", "BMY", "AMGN"},
	domain.IndustryEnergy:     {"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "PSX", "VLO", "OXY", "HES"},
	domain.IndustryConsumer:   {"AMZN", "WMT", "PG", "KO", "PEP", "COST", "MCD", "NKE", "SBUX", "TGT"},
}

// SymbolsForIndustry 返回行业成分股列表，未知行业返回 nil
func SymbolsForIndustry(industry domain.Industry) []string {
	return industrySymbols[industry]
}
