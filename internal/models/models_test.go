package models

import (
	"encoding/json"
	"testing"
)

func TestMarketTrendJSON(t *testing.T) {
	for _, trend := range []MarketTrend{TrendUptrend, TrendDowntrend, TrendSideways, TrendUncertain} {
		data, err := json.Marshal(trend)
		if err != nil {
			t.Fatalf("marshal %s: %v", trend, err)
		}
		if string(data) != `"`+string(trend)+`"` {
			t.Errorf("marshal %s = %s, want bare string", trend, data)
		}

		var back MarketTrend
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != trend {
			t.Errorf("round trip: got %s, want %s", back, trend)
		}
	}
}

func TestMarketTrendUnknownTag(t *testing.T) {
	var trend MarketTrend
	if err := json.Unmarshal([]byte(`"Moonshot"`), &trend); err == nil {
		t.Fatal("unknown trend tag accepted")
	}
}

func TestTradeStatusJSON(t *testing.T) {
	for _, status := range []TradeStatus{StatusPlanned, StatusOpen, StatusClosed, StatusCancelled} {
		data, err := json.Marshal(status)
		if err != nil {
			t.Fatalf("marshal %s: %v", status, err)
		}
		var back TradeStatus
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != status {
			t.Errorf("round trip: got %s, want %s", back, status)
		}
	}

	var status TradeStatus
	if err := json.Unmarshal([]byte(`"Paused"`), &status); err == nil {
		t.Fatal("unknown status tag accepted")
	}
}

func TestTradeStatusTerminal(t *testing.T) {
	if StatusPlanned.Terminal() || StatusOpen.Terminal() {
		t.Error("planned/open must not be terminal")
	}
	if !StatusClosed.Terminal() || !StatusCancelled.Terminal() {
		t.Error("closed/cancelled must be terminal")
	}
}

func TestChartPatternFixedJSON(t *testing.T) {
	names := []string{
		PatternHighBase, PatternLowBase, PatternAscendingTriangle,
		PatternDescendingTriangle, PatternCup, PatternHeadAndShoulders,
		PatternInverseHeadAndShoulders, PatternDoubleTop, PatternDoubleBottom,
		PatternConsolidation, PatternBreakoutPullback,
	}
	for _, name := range names {
		p, err := Pattern(name)
		if err != nil {
			t.Fatalf("pattern %s: %v", name, err)
		}
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if string(data) != `"`+name+`"` {
			t.Errorf("marshal %s = %s, want bare string", name, data)
		}

		var back ChartPattern
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != p {
			t.Errorf("round trip: got %+v, want %+v", back, p)
		}
	}
}

func TestChartPatternOtherJSON(t *testing.T) {
	p := OtherPattern("Wedge")
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"Other":"Wedge"}` {
		t.Errorf("marshal = %s, want tagged object", data)
	}

	var back ChartPattern
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != p {
		t.Errorf("round trip: got %+v, want %+v", back, p)
	}
}

func TestChartPatternBadEncodings(t *testing.T) {
	cases := []string{
		`"Wedge"`,                           // unknown bare tag
		`{"Other":"a","HighBase":"b"}`,      // more than one key
		`{"HighBase":"label"}`,              // fixed variant must not carry payload
		`42`,                                // wrong JSON type
	}
	for _, in := range cases {
		var p ChartPattern
		if err := json.Unmarshal([]byte(in), &p); err == nil {
			t.Errorf("accepted malformed encoding %s as %+v", in, p)
		}
	}
}

func TestParseChartPatternFallback(t *testing.T) {
	if p := ParseChartPattern("Cup"); p.Name != PatternCup {
		t.Errorf("ParseChartPattern(Cup) = %+v", p)
	}
	p := ParseChartPattern("Bull Flag")
	if p.Name != PatternOther || p.Label != "Bull Flag" {
		t.Errorf("ParseChartPattern fallback = %+v", p)
	}
	if p.String() != "Other (Bull Flag)" {
		t.Errorf("String() = %q", p.String())
	}
}
