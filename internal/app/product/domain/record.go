package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecordID identifies a product record. The record store may send ids as JSON
// strings or JSON numbers; the kind is kept so the id re-encodes unchanged.
type RecordID struct {
	value   string
	numeric bool
}

// NewRecordID creates a string-valued RecordID.
func NewRecordID(value string) RecordID {
	return RecordID{value: value}
}

// NumericRecordID creates a RecordID that encodes as a JSON number.
// The value must be a valid JSON number literal.
func NumericRecordID(value string) RecordID {
	return RecordID{value: value, numeric: true}
}

// String returns the id value without JSON quoting.
func (id RecordID) String() string { return id.value }

// IsZero reports whether the id is empty.
func (id RecordID) IsZero() bool { return id.value == "" }

// MarshalJSON encodes the id in the JSON kind it was received as.
func (id RecordID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("record id: %w", ErrEmptyRecordID)
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("record id: %w", err)
		}
		*id = RecordID{value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = RecordID{value: n.String(), numeric: true}
	return nil
}

// Variant is a read-only product variant.
type Variant struct {
	ID    RecordID
	SKU   string // empty when the store has none
	Price string // decimal as sent by the store
}

// Amount parses the variant price.
func (v Variant) Amount() (*Money, error) {
	return ParseMoney(v.Price)
}

// DisplaySKU returns the SKU or "N/A".
func (v Variant) DisplaySKU() string {
	if v.SKU == "" {
		return "N/A"
	}
	return v.SKU
}

// DisplayPrice formats the price with two decimals, falling back to the raw
// value when it does not parse.
func (v Variant) DisplayPrice() string {
	m, err := v.Amount()
	if err != nil {
		return v.Price
	}
	return m.String()
}

// ProductRecord is a product as listed by the record store. Only Title is
// editable.
type ProductRecord struct {
	ID       RecordID
	Title    string
	Variants []Variant
}

// Copy returns a deep copy of the record.
func (p ProductRecord) Copy() ProductRecord {
	out := p
	if p.Variants != nil {
		out.Variants = make([]Variant, len(p.Variants))
		copy(out.Variants, p.Variants)
	}
	return out
}

// CopyRecords deep copies a record sequence.
func CopyRecords(records []ProductRecord) []ProductRecord {
	out := make([]ProductRecord, len(records))
	for i, r := range records {
		out[i] = r.Copy()
	}
	return out
}
