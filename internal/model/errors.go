package model

import (
	"errors"
	"fmt"
	"time"
)

// Error codes are stable; the API exposes them to clients.
const (
	CodeSchema            = "SCHEMA_ERROR"
	CodeEmptyInput        = "EMPTY_INPUT"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeNoForecastForDate = "NO_FORECAST_FOR_DATE"
)

var (
	// ErrEmptyInput is returned when no usable rows survive preparation.
	ErrEmptyInput = &codedError{code: CodeEmptyInput, msg: "no valid price rows in input"}
	// ErrInsufficientData is returned when the backtest join is empty.
	ErrInsufficientData = &codedError{code: CodeInsufficientData, msg: "no forecast values overlap the recent closes"}
)

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string { return e.msg }
func (e *codedError) Code() string  { return e.code }

// SchemaError reports a missing column or an unparseable cell.
// Row is 1-based over data rows (header excluded); 0 means the header itself.
type SchemaError struct {
	Column string
	Row    int
	Value  string
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("required column %q not found", e.Column)
	}
	return fmt.Sprintf("row %d: cannot parse %s value %q", e.Row, e.Column, e.Value)
}

func (e *SchemaError) Code() string { return CodeSchema }

// NoForecastForDateError reports an exact-date lookup miss.
type NoForecastForDateError struct {
	Date time.Time
}

func (e *NoForecastForDateError) Error() string {
	return fmt.Sprintf("no forecast available for %s", e.Date.Format(DateLayout))
}

func (e *NoForecastForDateError) Code() string { return CodeNoForecastForDate }

// ErrorCode extracts the domain code from err, or "" for foreign errors.
func ErrorCode(err error) string {
	var c interface{ Code() string }
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}
