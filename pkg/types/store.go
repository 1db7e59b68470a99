package types

import "errors"

// Store lookup and input errors. Not-found conditions are signaled with
// sentinel errors rather than panics so the HTTP layer can map them to
// status codes directly.
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidID      = errors.New("invalid member id")
	ErrStoreClosed    = errors.New("store is closed")
)

// ListOptions selects a page of the active partition. Filter, when
// non-nil, keeps only records for which it returns true. Page is clamped
// into [1, totalPages] by the store.
type ListOptions struct {
	Page     int
	PageSize int
	Filter   func(Member) bool
}

// LunchOnly is the standard list filter for kiosk screens that show only
// lunch-time attendees.
func LunchOnly(m Member) bool {
	return bool(m.Lunch)
}

// ListResult is a stable, id-ordered, paginated view of the active
// partition. TotalPages is at least 1 even when the partition is empty.
type ListResult struct {
	Items       []Member `json:"items"`
	Total       int      `json:"total"`
	Page        int      `json:"page"`
	PageSize    int      `json:"pageSize"`
	TotalPages  int      `json:"totalPages"`
	CurrentDate string   `json:"currentDate"`
}

// MemberStore is the contract of the active-partition record store.
//
// Create, Update, and Delete run a blocking rollover check first, so a
// record is always attributed to the correct calendar day even exactly
// at the midnight boundary. Read operations rely on the background
// watcher and may observe a partition that is stale by at most one tick.
// Persistence is debounced: a call returning does not mean the mutation
// has reached disk yet.
type MemberStore interface {
	// List returns a filtered, paginated view plus the active date.
	List(opts ListOptions) (*ListResult, error)

	// Get returns the record with the given id from the active
	// partition, or ErrMemberNotFound.
	Get(id int64) (*Member, error)

	// GetByUserNo returns the record with the given external member
	// number, or ErrMemberNotFound.
	GetByUserNo(userNo string) (*Member, error)

	// GetByPhone returns the record with the given phone number, or
	// ErrMemberNotFound.
	GetByPhone(phone string) (*Member, error)

	// Create assigns the next id, stamps timestamps, inserts the
	// record, and schedules a debounced persist.
	Create(data MemberData) (*Member, error)

	// Update applies a partial patch, preserving the id and re-stamping
	// the update time. Returns ErrMemberNotFound if absent.
	Update(id int64, patch MemberPatch) (*Member, error)

	// Delete removes the record. Returns ErrMemberNotFound if absent.
	// The freed id is never reissued within the partition.
	Delete(id int64) error

	// ActiveDate returns the key of the currently active partition.
	ActiveDate() string

	// Close stops the watcher and timer and flushes pending state.
	// Idempotent.
	Close() error
}
