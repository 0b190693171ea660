package model

import (
	"errors"
	"fmt"
	"strings"
)

// Query errors: reported to the caller as not-found conditions. They do
// not corrupt engine state and subsequent calls are unaffected.
var (
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrProductNotFound  = errors.New("product not found")
)

// DataError reports a single malformed or unresolvable input record.
// Data errors are recovered locally: the offending record is excluded
// and the rest of the batch continues.
type DataError struct {
	Table string // "suppliers", "dependencies", "country_risk", "product_bom"
	ID    string // record identifier, best effort
	Err   error
}

func (e *DataError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s[%s]: %v", e.Table, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Table, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// NewDataError wraps a record-level failure.
func NewDataError(table, id string, err error) *DataError {
	return &DataError{Table: table, ID: id, Err: err}
}

// ConfigError reports invalid engine configuration. Config errors are
// fatal at load time, before any record is processed.
type ConfigError struct {
	Name string
	Errs []error
}

func (e *ConfigError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid %s configuration: %s", e.Name, strings.Join(msgs, "; "))
}

func (e *ConfigError) Unwrap() []error { return e.Errs }
