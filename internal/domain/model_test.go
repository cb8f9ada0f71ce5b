package domain

import "testing"

func TestParseIntent(t *testing.T) {
	cases := []struct {
		in   string
		want Intent
	}{
		{"top_gainers", IntentTopGainers},
		{"top_losers", IntentTopLosers},
		{"quote", IntentQuote},
		{"compare", IntentCompare},
		{"unsupported", IntentUnsupported},
		// 未知值一律归入 unsupported
		{"sentiment", IntentUnsupported},
		{"", IntentUnsupported},
	}
	for _, tc := range cases {
		if got := ParseIntent(tc.in); got != tc.want {
			t.Errorf("ParseIntent(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseIndustry(t *testing.T) {
	if got := ParseIndustry("technology"); got != IndustryTechnology {
		t.Errorf("ParseIndustry(technology) = %s", got)
	}
	if got := ParseIndustry("aerospace"); got != "" {
		t.Errorf("ParseIndustry(aerospace) = %q, want empty", got)
	}
}
