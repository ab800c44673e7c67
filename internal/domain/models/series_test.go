package models

import (
	"encoding/json"
	"testing"
)

func TestDailySeriesMarshalShape(t *testing.T) {
	s := NewDailySeries("NVDA")
	s.Days["2026-08-28"] = DailyBar{Open: 100, High: 102, Low: 99, Close: 101.5, Volume: 42}
	s.Days["2026-08-31"] = DailyBar{Open: 101.5, High: 103, Low: 101, Close: 102, Volume: 43}
	s.RefreshMeta()

	if s.Meta.LastRefreshed != "2026-08-31" {
		t.Fatalf("expected last refreshed 2026-08-31, got %q", s.Meta.LastRefreshed)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["Meta Data"]; !ok {
		t.Fatalf("missing Meta Data block: %v", raw)
	}
	var days map[string]map[string]string
	if err := json.Unmarshal(raw["Time Series (Daily)"], &days); err != nil {
		t.Fatalf("unmarshal days: %v", err)
	}

	bar := days["2026-08-28"]
	if bar["1. open"] != "100.00" || bar["4. close"] != "101.50" || bar["5. volume"] != "42" {
		t.Fatalf("unexpected bar: %v", bar)
	}
}

func TestDailyBarRoundTrip(t *testing.T) {
	in := DailyBar{Open: 10.123, High: 11, Low: 9.5, Close: 10.88, Volume: 777}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out DailyBar
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Prices travel rounded to two decimals.
	if out.Open != 10.12 || out.Close != 10.88 || out.Volume != 777 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
