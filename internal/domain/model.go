package domain

// Intent 用户查询意图
type Intent string

const (
	IntentTopGainers  Intent = "top_gainers"
	IntentTopLosers   Intent = "top_losers"
	IntentQuote       Intent = "quote"
	IntentCompare     Intent = "compare"
	IntentUnsupported Intent = "unsupported"
)

// ParseIntent 将模型返回的意图字符串归一化为枚举，未知值一律视为 unsupported
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentTopGainers, IntentTopLosers, IntentQuote, IntentCompare:
		return Intent(s)
	default:
		return IntentUnsupported
	}
}

// Industry 支持的行业标签
type Industry string

const (
	IndustryTechnology Industry = "technology"
	IndustryFinance    Industry = "finance"
	IndustryHealthcare Industry = "healthcare"
	IndustryEnergy     Industry = "energy"
	IndustryConsumer   Industry = "consumer"
)

// ParseIndustry 归一化行业标签，未知值返回空
func ParseIndustry(s string) Industry {
	switch Industry(s) {
	case IndustryTechnology, IndustryFinance, IndustryHealthcare, IndustryEnergy, IndustryConsumer:
		return Industry(s)
	default:
		return ""
	}
}

// Direction 涨跌方向
type Direction string

const (
	DirectionGainers Direction = "gainers"
	DirectionLosers  Direction = "losers"
)

// ParsedQuery 模型解析后的结构化查询，每次请求只生成一次，生成后只读
type ParsedQuery struct {
	Intent    Intent
	Industry  Industry
	Symbols   []string
	Direction Direction
}

// Quote 实时行情，字段均为行情源原样透传
// ChangePercent 与 Timestamp 在行情源可能缺失，用指针表示
type Quote struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  float64  `json:"current_price"`
	Change        float64  `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	OpenPrice     float64  `json:"open_price"`
	PreviousClose float64  `json:"previous_close"`
	Timestamp     *int64   `json:"timestamp,omitempty"`
}

// CompanyProfile 公司概况，除 Symbol/Name 外均可能缺失
type CompanyProfile struct {
	Symbol               string  `json:"symbol"`
	Name                 string  `json:"name"`
	Country              string  `json:"country,omitempty"`
	Currency             string  `json:"currency,omitempty"`
	Exchange             string  `json:"exchange,omitempty"`
	IPO                  string  `json:"ipo,omitempty"`
	MarketCapitalization float64 `json:"market_capitalization,omitempty"`
	ShareOutstanding     float64 `json:"share_outstanding,omitempty"`
	Logo                 string  `json:"logo,omitempty"`
	Phone                string  `json:"phone,omitempty"`
	WebURL               string  `json:"weburl,omitempty"`
	Industry             string  `json:"industry,omitempty"`
}

// Mover 榜单中的一只股票，是 Quote 的投影
type Mover struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
}

// ComparisonEntry 两股对比时单只股票的指标集合
type ComparisonEntry struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name,omitempty"`
	CurrentPrice  float64  `json:"current_price"`
	Change        float64  `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	OpenPrice     float64  `json:"open_price"`
	MarketCap     float64  `json:"market_cap,omitempty"`
}

// Answer 最终回答信封
// Symbols 按首次引用顺序记录回答涉及的股票代码，前端用它做高亮
// Movers 仅榜单类意图填充，涨跌两个方向共用同一字段
type Answer struct {
	Response string
	Symbols  []string
	Movers   []Mover
}
