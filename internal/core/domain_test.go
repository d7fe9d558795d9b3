package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParsePolarity(t *testing.T) {
	for _, in := range []string{"INCOME", "income", " Expense "} {
		if _, err := ParsePolarity(in); err != nil {
			t.Fatalf("%q expected ok, got %v", in, err)
		}
	}
	if _, err := ParsePolarity("TRANSFER"); !errors.Is(err, ErrInvalidPolarity) {
		t.Fatalf("expected ErrInvalidPolarity, got %v", err)
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{ID: 1, Username: "ann"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (User{ID: 0, Username: "ann"}).Validate(); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if err := (User{ID: 3, Username: "  "}).Validate(); !errors.Is(err, ErrEmptyUsername) {
		t.Fatalf("expected ErrEmptyUsername, got %v", err)
	}
}

func TestRecordInputValidate(t *testing.T) {
	good := RecordInput{
		Amount:      Ptr(Money{Cents: -450}),
		Type:        Ptr(Expense),
		RecordDate:  Ptr(NewDate(2024, 1, 31)),
		Description: Ptr("coffee"),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (RecordInput{}).Validate(); err != nil {
		t.Fatalf("empty partial should be valid, got %v", err)
	}

	bads := []RecordInput{
		{Type: Ptr(Polarity("BOTH"))},
		{Amount: Ptr(Money{})},
		{RecordDate: Ptr(Date{})},
		{CategoryID: Ptr(int64(0))},
		{Description: Ptr(strings.Repeat("x", 256))},
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryInputValidate(t *testing.T) {
	if err := (CategoryInput{Name: Ptr("Food"), Type: Ptr(Expense)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (CategoryInput{Name: Ptr(" ")}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (CategoryInput{Type: Ptr(Polarity("x"))}).Validate(); !errors.Is(err, ErrInvalidPolarity) {
		t.Fatalf("expected ErrInvalidPolarity, got %v", err)
	}
}

func TestCheckPolarity(t *testing.T) {
	food := &Category{ID: 1, Name: "Food", Type: Expense}
	if err := CheckPolarity(Expense, food); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := CheckPolarity(Income, food); !errors.Is(err, ErrPolarityMismatch) {
		t.Fatalf("expected ErrPolarityMismatch, got %v", err)
	}
	if err := CheckPolarity(Income, nil); err != nil {
		t.Fatalf("unknown category should pass, got %v", err)
	}
	if err := CheckPolarity("", food); err != nil {
		t.Fatalf("unknown record polarity should pass, got %v", err)
	}
}

func TestRecordJSONShape(t *testing.T) {
	raw := `{"id":9,"userId":7,"categoryId":3,"category":{"id":3,"name":"Salary","type":"INCOME","icon":"wallet","userId":7},
		"amount":2500.5,"type":"INCOME","recordDate":"2024-01-15","description":"jan","createdAt":"2024-01-15T09:30:00"}`
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Amount.Cents != 250050 || r.Type != Income || r.Category == nil || r.Category.Name != "Salary" {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.RecordDate.String() != "2024-01-15" {
		t.Fatalf("unexpected date %s", r.RecordDate)
	}
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	if !r.CreatedAt.Equal(want) {
		t.Fatalf("createdAt = %v, want %v", r.CreatedAt, want)
	}
}

func TestDateRange(t *testing.T) {
	if err := ValidateRange(NewDate(2024, 1, 1), NewDate(2024, 1, 31)); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateRange(NewDate(2024, 1, 1), NewDate(2024, 1, 1)); err != nil {
		t.Fatalf("single day range should be valid, got %v", err)
	}
	if err := ValidateRange(NewDate(2024, 2, 1), NewDate(2024, 1, 31)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	start, end := MonthRange(time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC))
	if start.String() != "2024-02-01" || end.String() != "2024-02-29" {
		t.Fatalf("unexpected month range %s..%s", start, end)
	}
}

func TestSummarize(t *testing.T) {
	food := &Category{ID: 1, Name: "Food", Type: Expense}
	salary := &Category{ID: 2, Name: "Salary", Type: Income}
	records := []Record{
		{Amount: Money{Cents: 1200}, Type: Expense, Category: food},
		{Amount: Money{Cents: -800}, Type: Expense, Category: food},
		{Amount: Money{Cents: 300000}, Type: Income, Category: salary},
		{Amount: Money{Cents: 500}, Type: Expense},
	}
	s := Summarize(NewDate(2024, 1, 1), NewDate(2024, 1, 31), records)
	if s.Income.Cents != 300000 || s.Expense.Cents != 2500 {
		t.Fatalf("unexpected totals income=%d expense=%d", s.Income.Cents, s.Expense.Cents)
	}
	if s.Balance().Cents != 297500 {
		t.Fatalf("unexpected balance %d", s.Balance().Cents)
	}
	if len(s.ByCategory) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(s.ByCategory))
	}
	if s.ByCategory[0].Name != "Salary" || s.ByCategory[1].Name != "Food" || s.ByCategory[1].Count != 2 {
		t.Fatalf("unexpected grouping %+v", s.ByCategory)
	}
	if s.ByCategory[2].Name != "Uncategorized" {
		t.Fatalf("expected uncategorized bucket last, got %+v", s.ByCategory[2])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(NewDate(2024, 1, 1), NewDate(2024, 1, 31), nil)
	if s.Income.Cents != 0 || s.Expense.Cents != 0 || len(s.ByCategory) != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
}
