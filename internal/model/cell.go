package model

import (
	"bytes"
	"strconv"
	"strings"
)

// Spreadsheet-backed mirrors flatten every field to text, so numeric and
// boolean fields come back as quoted strings as often as typed JSON values.
// CellInt64 and CellBool accept both forms on ingest and marshal back to the
// plain typed form. Unparseable cells decode to the zero value instead of
// failing, so one bad remote row cannot block a whole pull.

// CellInt64 is an int64 that tolerates spreadsheet cell encodings.
type CellInt64 int64

// UnmarshalJSON accepts a JSON number, a quoted number (including float
// renderings like "1700000000000.0"), or null/empty.
func (n *CellInt64) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = CellInt64(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = CellInt64(int64(f))
		return nil
	}
	*n = 0
	return nil
}

// CellBool is a bool that tolerates spreadsheet cell encodings.
type CellBool bool

// UnmarshalJSON accepts JSON true/false, "TRUE"/"FALSE" (any case), "1"/"0",
// or null/empty. Anything unrecognized decodes to false.
func (b *CellBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	switch strings.ToLower(s) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}
