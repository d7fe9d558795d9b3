package core

import "sort"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	CategoryID int64
	Name       string
	Type       Polarity
	Amount     Money
	Count      int
}

// Summary is a compact overview of a set of records.
type Summary struct {
	Start      Date
	End        Date
	Income     Money
	Expense    Money
	ByCategory []CategoryAmount
}

// Balance is income minus expense.
func (s Summary) Balance() Money {
	return Money{Cents: s.Income.Cents - s.Expense.Cents}
}

const uncategorized = "Uncategorized"

// Summarize aggregates records by polarity and category. Amounts are taken by
// magnitude; the record's polarity decides which side they count on.
// Categories are sorted by amount, largest first, then by name.
func Summarize(start, end Date, records []Record) Summary {
	s := Summary{Start: start, End: end}
	byKey := map[int64]*CategoryAmount{}
	var order []int64

	for _, r := range records {
		amt := r.Amount.Abs()
		switch r.Type {
		case Income:
			s.Income.Cents += amt.Cents
		case Expense:
			s.Expense.Cents += amt.Cents
		}

		var key int64
		name := uncategorized
		polarity := r.Type
		if r.CategoryID != nil {
			key = *r.CategoryID
		}
		if r.Category != nil {
			key = r.Category.ID
			name = r.Category.Name
			if r.Category.Type != "" {
				polarity = r.Category.Type
			}
		}
		ca, ok := byKey[key]
		if !ok {
			ca = &CategoryAmount{CategoryID: key, Name: name, Type: polarity}
			byKey[key] = ca
			order = append(order, key)
		}
		ca.Amount.Cents += amt.Cents
		ca.Count++
	}

	s.ByCategory = make([]CategoryAmount, 0, len(order))
	for _, k := range order {
		s.ByCategory = append(s.ByCategory, *byKey[k])
	}
	sort.SliceStable(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})
	return s
}
