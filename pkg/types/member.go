package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Member is one registration record. Ids are unique and monotonically
// issued within a partition; they are never reused after deletion for
// the lifetime of that partition.
//
// CreatedAt and UpdatedAt are stored as strings because historical
// partitions written by the previous system carry locale-formatted
// 12-hour timestamps. New records are stamped RFC3339 in the reference
// timezone; the report parser handles both.
type Member struct {
	ID         int64  `json:"id"`
	UserNo     string `json:"userNo"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	GradeClass string `json:"gradeClass"`
	Gender     string `json:"gender"`
	Lunch      Flag   `json:"lunch"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// MemberData carries the fields of a record to be created. Ids and
// timestamps are assigned by the store.
type MemberData struct {
	UserNo     string
	Name       string
	Phone      string
	GradeClass string
	Gender     string
	Lunch      Flag
}

// MemberPatch carries a partial update. Nil fields are left unchanged.
// The id and creation timestamp are never patchable.
type MemberPatch struct {
	UserNo     *string
	Name       *string
	Phone      *string
	GradeClass *string
	Gender     *string
	Lunch      *Flag
}

// Flag is a boolean that tolerates the value shapes found in seed data:
// true, "true", 1 and "1" decode to true, everything else to false.
// It always encodes as a plain JSON boolean.
type Flag bool

// ParseFlag reports whether v is one of the recognized true-like values.
func ParseFlag(v any) Flag {
	switch t := v.(type) {
	case bool:
		return Flag(t)
	case string:
		return t == "true" || t == "1"
	case float64:
		return t == 1
	case int:
		return t == 1
	case json.Number:
		return t.String() == "1"
	default:
		return false
	}
}

// UnmarshalJSON decodes true-like variants without failing on the
// heterogeneous values present in historical partition files.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", `"true"`, "1", `"1"`:
		*f = true
	default:
		*f = false
	}
	return nil
}

// MarshalJSON encodes the flag as a plain boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(f))), nil
}

// Marker returns the single-character export marker: "Y" for true-like,
// "N" otherwise.
func (f Flag) Marker() string {
	if f {
		return "Y"
	}
	return "N"
}
