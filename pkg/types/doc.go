// Package types defines the member record, the store and range-reader
// interfaces, report row types, and standard errors for the rollcall
// kiosk backend.
//
// The storage model is one JSON partition file per calendar date in a
// fixed reference timezone. Exactly one partition is active in memory at
// a time; every other partition is read-only history reached through
// RangeReader.
package types
