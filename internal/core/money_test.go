package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-12,345", -1235, true},
		{"+3", 300, true},
		{".5", 50, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"1.٣", 0, false},
		{"١٢", 0, false},
		{"1.2٥", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyJSONRejectsNonASCIIDigits(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"1.٣"`), &m); err == nil {
		t.Fatalf("expected error, got %d cents", m.Cents)
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:     "0.00",
		5:     "0.05",
		1234:  "12.34",
		-1234: "-12.34",
		-7:    "-0.07",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var m Money
	for in, want := range map[string]int64{
		`12.5`:    1250,
		`-3`:      -300,
		`"7,25"`:  725,
		`1.5e1`:   1500,
		`null`:    0,
		`100.999`: 10100,
	} {
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if m.Cents != want {
			t.Errorf("unmarshal %s = %d, want %d", in, m.Cents, want)
		}
	}

	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Money{Cents: -1999}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"amount":-19.99}` {
		t.Fatalf("unexpected json %s", out)
	}

	if err := json.Unmarshal([]byte(`"x"`), &m); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}
