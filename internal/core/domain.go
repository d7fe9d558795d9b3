package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Income  Polarity = "INCOME"
	Expense Polarity = "EXPENSE"
)

type (
	// Polarity classifies categories and records as money in or money out.
	Polarity string

	User struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		CreatedAt Timestamp `json:"createdAt"`
	}

	// Credentials is only ever sent as a request body.
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password,omitempty"`
	}

	Category struct {
		ID     int64    `json:"id"`
		Name   string   `json:"name"`
		Type   Polarity `json:"type"`
		Icon   string   `json:"icon"`
		UserID int64    `json:"userId"`
	}

	Record struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"userId"`
		CategoryID  *int64    `json:"categoryId,omitempty"`
		Category    *Category `json:"category,omitempty"`
		Amount      Money     `json:"amount"`
		Type        Polarity  `json:"type"`
		RecordDate  Date      `json:"recordDate"`
		Description string    `json:"description"`
		CreatedAt   Timestamp `json:"createdAt"`
	}

	// CategoryInput is the body of a category create call. Nil fields are omitted.
	CategoryInput struct {
		Name   *string   `json:"name,omitempty"`
		Type   *Polarity `json:"type,omitempty"`
		Icon   *string   `json:"icon,omitempty"`
		UserID *int64    `json:"userId,omitempty"`
	}

	// RecordInput is the body of record create and update calls. Nil fields are omitted.
	RecordInput struct {
		UserID      *int64    `json:"userId,omitempty"`
		CategoryID  *int64    `json:"categoryId,omitempty"`
		Amount      *Money    `json:"amount,omitempty"`
		Type        *Polarity `json:"type,omitempty"`
		RecordDate  *Date     `json:"recordDate,omitempty"`
		Description *string   `json:"description,omitempty"`
	}
)

var (
	ErrInvalidPolarity  = errors.New("invalid polarity")
	ErrPolarityMismatch = errors.New("record polarity does not match category polarity")
	ErrInvalidID        = errors.New("invalid id")
	ErrEmptyUsername    = errors.New("empty username")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidRange     = errors.New("start date after end date")
)

// ParsePolarity accepts the wire values case-insensitively.
func ParsePolarity(s string) (Polarity, error) {
	p := Polarity(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPolarity, s)
	}
	return p, nil
}

func (p Polarity) Valid() bool {
	switch p {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (p Polarity) String() string {
	return string(p)
}

func (u User) Validate() error {
	if u.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	return nil
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return ErrEmptyUsername
	}
	return nil
}

func (in CategoryInput) Validate() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ErrEmptyName
	}
	if in.Type != nil && !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolarity, *in.Type)
	}
	if in.UserID != nil && *in.UserID <= 0 {
		return fmt.Errorf("user: %w", ErrInvalidID)
	}
	return nil
}

func (in RecordInput) Validate() error {
	if in.Type != nil && !in.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolarity, *in.Type)
	}
	if in.Amount != nil && in.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if in.RecordDate != nil && in.RecordDate.IsZero() {
		return ErrInvalidDate
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return fmt.Errorf("category: %w", ErrInvalidID)
	}
	if in.UserID != nil && *in.UserID <= 0 {
		return fmt.Errorf("user: %w", ErrInvalidID)
	}
	if in.Description != nil && len(*in.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	return nil
}

// CheckPolarity reports ErrPolarityMismatch when both sides carry a polarity
// and they disagree. Missing information on either side is not an error.
func CheckPolarity(record Polarity, category *Category) error {
	if category == nil || record == "" || category.Type == "" {
		return nil
	}
	if record != category.Type {
		return fmt.Errorf("%w: record is %s, category %q is %s",
			ErrPolarityMismatch, record, category.Name, category.Type)
	}
	return nil
}

// Ptr returns a pointer to v. Handy for building partial inputs.
func Ptr[T any](v T) *T {
	return &v
}
