package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// Money represents a monetary value with precise decimal arithmetic using big.Rat.
type Money struct {
	rat *big.Rat
}

// ParseMoney parses a decimal string such as "19.99".
func ParseMoney(s string) (*Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return &Money{rat: rat}, nil
}

// String returns the value rounded to two decimals.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}
