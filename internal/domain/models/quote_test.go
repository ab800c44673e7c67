package models

import (
	"encoding/json"
	"testing"
)

func TestQuoteMarshalOrdinalKeys(t *testing.T) {
	q := Quote{
		Symbol:           "aapl",
		Open:             210.5,
		High:             213.0,
		Low:              209.75,
		Price:            211.271,
		Volume:           12345678,
		LatestTradingDay: "2026-08-31",
		PreviousClose:    210.0,
	}
	q.Recompute()

	b, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}

	want := map[string]string{
		"01. symbol":             "AAPL",
		"02. open":               "210.50",
		"03. high":               "213.00",
		"04. low":                "209.75",
		"05. price":              "211.27",
		"06. volume":             "12345678",
		"07. latest trading day": "2026-08-31",
		"08. previous close":     "210.00",
		"09. change":             "1.27",
		"10. change percent":     "0.60%",
	}
	if len(raw) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(raw), raw)
	}
	for k, v := range want {
		if raw[k] != v {
			t.Fatalf("key %q: expected %q, got %q", k, v, raw[k])
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	q := Quote{
		Symbol:           "MSFT",
		Open:             100,
		High:             105,
		Low:              99,
		Price:            104.5,
		Volume:           5000000,
		LatestTradingDay: "2026-08-31",
		PreviousClose:    101,
	}
	q.Recompute()

	b, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Quote
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Symbol != "MSFT" || got.Price != 104.5 || got.Volume != 5000000 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Change != 3.5 {
		t.Fatalf("expected change 3.5, got %v", got.Change)
	}
}

func TestRecomputeZeroPreviousClose(t *testing.T) {
	q := Quote{Price: 100}
	q.Recompute()
	if q.ChangePercent != "0.00%" {
		t.Fatalf("expected 0.00%%, got %q", q.ChangePercent)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.238:   1.24,
		1.004:   1.0,
		-2.346:  -2.35,
		211.271: 211.27,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v): expected %v, got %v", in, want, got)
		}
	}
}
