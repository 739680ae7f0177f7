// Package record holds the running-average accumulator and its YAML file store.
package record

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoEntries is returned when an average is requested before any value was recorded.
	ErrNoEntries = errors.New("no values recorded yet")
	// ErrInvalidRecord is returned for records with negative fields.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrNegativeValue is returned when a negative value is added.
	ErrNegativeValue = errors.New("value must not be negative")
)

// Record is the persisted accumulator: how many values were recorded and their sum.
type Record struct {
	Amount int64 `yaml:"amount"`
	Total  int64 `yaml:"total"`
}

// Validate checks amount >= 0 and total >= 0.
func (r Record) Validate() error {
	if r.Amount < 0 {
		return fmt.Errorf("%w: amount %d is negative", ErrInvalidRecord, r.Amount)
	}
	if r.Total < 0 {
		return fmt.Errorf("%w: total %d is negative", ErrInvalidRecord, r.Total)
	}
	return nil
}

// Add returns the record with v appended: amount+1, total+v.
func (r Record) Add(v int64) (Record, error) {
	if v < 0 {
		return r, fmt.Errorf("%w: %d", ErrNegativeValue, v)
	}
	if r.Amount == math.MaxInt64 || r.Total > math.MaxInt64-v {
		return r, fmt.Errorf("%w: adding %d overflows", ErrInvalidRecord, v)
	}
	return Record{Amount: r.Amount + 1, Total: r.Total + v}, nil
}

// Average returns total/amount.
func (r Record) Average() (float64, error) {
	if r.Amount == 0 {
		return 0, ErrNoEntries
	}
	return float64(r.Total) / float64(r.Amount), nil
}

// FormatAverage renders the average with two decimal places.
func (r Record) FormatAverage() (string, error) {
	avg, err := r.Average()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.2f", avg), nil
}
