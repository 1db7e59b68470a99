// Package jsonstore implements the date-partitioned member store.
//
// The store owns the in-memory table for "today", backed 1:1 by a JSON
// partition file. Mutations run a blocking rollover check first, so a
// record is always attributed to the correct calendar day; reads rely on
// a background watcher and may be stale by at most one poll tick.
// Persistence is debounced: bursts of mutations within one window
// coalesce into a single atomic whole-snapshot write.
package jsonstore

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mesh-intelligence/rollcall/internal/logging"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// Store is the active-partition record store. All table and timer access
// is serialized by one mutex; the debounce timer callback and the
// rollover watcher take the same lock, so mutation handlers, the
// rollover check, and the persist callback never run concurrently.
type Store struct {
	mu sync.Mutex

	dir      string
	loc      *time.Location
	debounce time.Duration
	poll     time.Duration
	pageSize int

	// now is the clock; overridden in tests to cross day boundaries.
	now func() time.Time

	log *slog.Logger

	table      map[int64]types.Member
	nextID     int64
	activeDate string

	// saveTimer is the single pending persist, replaced (never
	// accumulated) on every mutation. saveGen supersedes earlier
	// scheduled firings: only the most recent one performs work.
	saveTimer *time.Timer
	saveGen   uint64

	stopWatch chan struct{}
	closed    bool
}

var _ types.MemberStore = (*Store)(nil)

// Open ensures the data directory exists, loads or creates today's
// partition, seeds the id counter, and starts the rollover watcher.
func Open(cfg types.Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{
		dir:       cfg.DataDir,
		loc:       cfg.Location(),
		debounce:  cfg.Debounce(),
		poll:      cfg.RolloverPoll(),
		pageSize:  cfg.ListPageSize(),
		now:       time.Now,
		log:       logging.Component("store"),
		table:     make(map[int64]types.Member),
		nextID:    1,
		stopWatch: make(chan struct{}),
	}

	s.mu.Lock()
	s.loadDateLocked(dateKey(s.now(), s.loc))
	s.mu.Unlock()

	go s.watchRollover()

	return s, nil
}

// watchRollover polls for date changes at a coarse interval. Rollover
// only needs whole-day resolution, so polling beats filesystem
// notifications for portability here.
func (s *Store) watchRollover() {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopWatch:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.closed {
				s.ensureTodayLocked()
			}
			s.mu.Unlock()
		}
	}
}

// ensureTodayLocked performs the rollover check: if the calendar date in
// the reference timezone moved past the cached active date, the old
// partition is flushed and the new one becomes active.
func (s *Store) ensureTodayLocked() {
	today := dateKey(s.now(), s.loc)
	if today == s.activeDate {
		return
	}

	// A pending write must land in the partition that was active when
	// it was scheduled; flush it before the table is cleared.
	s.flushPendingLocked()
	s.loadDateLocked(today)
}

// loadDateLocked clears the table, resets the id counter, and loads or
// creates the partition file for date, making it active.
func (s *Store) loadDateLocked(date string) {
	s.table = make(map[int64]types.Member)
	s.nextID = 1

	path := partitionPath(s.dir, date)
	records, err := readPartitionFile(path)
	switch {
	case err == nil:
		for _, m := range records {
			s.seedLocked(m)
		}
		s.log.Info("loaded partition", "date", date, "records", len(records))
	case os.IsNotExist(err):
		if werr := writePartitionFile(path, []byte("[]")); werr != nil {
			s.log.Error("create partition file", "date", date, "error", werr)
		} else {
			s.log.Info("created partition", "date", date)
		}
	default:
		// Corrupt file: replaced with an empty partition, not fatal.
		s.log.Error("unreadable partition, starting empty", "date", date, "error", err)
		if werr := writePartitionFile(path, []byte("[]")); werr != nil {
			s.log.Error("replace partition file", "date", date, "error", werr)
		}
	}

	s.activeDate = date
}

// seedLocked inserts a loaded record, issuing a fresh id for records
// without a positive one, and advances the id counter past it.
func (s *Store) seedLocked(m types.Member) {
	if m.ID <= 0 {
		m.ID = s.nextID
	}
	s.table[m.ID] = m
	if m.ID >= s.nextID {
		s.nextID = m.ID + 1
	}
}

// stamp returns the current instant formatted for storage.
func (s *Store) stamp() string {
	return s.now().In(s.loc).Format(time.RFC3339)
}

// List returns a stable, id-ordered, filtered, paginated view of the
// active partition. Page is clamped into [1, totalPages]; totalPages is
// at least 1 even when the partition is empty.
func (s *Store) List(opts types.ListOptions) (*types.ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	rows := make([]types.Member, 0, len(s.table))
	for _, m := range s.table {
		if opts.Filter == nil || opts.Filter(m) {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	return &types.ListResult{
		Items:       rows[lo:hi],
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		CurrentDate: s.activeDate,
	}, nil
}

// Get returns the record with the given id from the active partition.
func (s *Store) Get(id int64) (*types.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	m, ok := s.table[id]
	if !ok {
		return nil, types.ErrMemberNotFound
	}
	return &m, nil
}

// GetByUserNo returns the record with the given external member number.
// Member numbers compare numerically, so "007" and "7" match.
func (s *Store) GetByUserNo(userNo string) (*types.Member, error) {
	no, err := strconv.ParseInt(strings.TrimSpace(userNo), 10, 64)
	if err != nil || no <= 0 {
		return nil, types.ErrMemberNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	for _, m := range s.table {
		if n, err := strconv.ParseInt(strings.TrimSpace(m.UserNo), 10, 64); err == nil && n == no {
			found := m
			return &found, nil
		}
	}
	return nil, types.ErrMemberNotFound
}

// GetByPhone returns the record with the given phone number.
func (s *Store) GetByPhone(phone string) (*types.Member, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, types.ErrMemberNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	for _, m := range s.table {
		if m.Phone == phone {
			found := m
			return &found, nil
		}
	}
	return nil, types.ErrMemberNotFound
}

// Create inserts a new record into the active partition. The rollover
// check runs first, so a create exactly at midnight lands in the new
// day's partition with a fresh id sequence.
func (s *Store) Create(data types.MemberData) (*types.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	s.ensureTodayLocked()

	now := s.stamp()
	m := types.Member{
		ID:         s.nextID,
		UserNo:     data.UserNo,
		Name:       data.Name,
		Phone:      data.Phone,
		GradeClass: data.GradeClass,
		Gender:     data.Gender,
		Lunch:      data.Lunch,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.nextID++
	s.table[m.ID] = m
	s.persistSoonLocked()

	return &m, nil
}

// Update applies a partial patch to an existing record, preserving the
// id and re-stamping the update time.
func (s *Store) Update(id int64, patch types.MemberPatch) (*types.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	s.ensureTodayLocked()

	m, ok := s.table[id]
	if !ok {
		return nil, types.ErrMemberNotFound
	}

	if patch.UserNo != nil {
		m.UserNo = *patch.UserNo
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Phone != nil {
		m.Phone = *patch.Phone
	}
	if patch.GradeClass != nil {
		m.GradeClass = *patch.GradeClass
	}
	if patch.Gender != nil {
		m.Gender = *patch.Gender
	}
	if patch.Lunch != nil {
		m.Lunch = *patch.Lunch
	}
	m.UpdatedAt = s.stamp()

	s.table[id] = m
	s.persistSoonLocked()

	return &m, nil
}

// Delete removes a record from the active partition. The freed id is
// never reissued within the partition's lifetime.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	s.ensureTodayLocked()

	if _, ok := s.table[id]; !ok {
		return types.ErrMemberNotFound
	}
	delete(s.table, id)
	s.persistSoonLocked()

	return nil
}

// ActiveDate returns the key of the currently active partition.
func (s *Store) ActiveDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDate
}

// persistSoonLocked (re)starts the single debounce timer. Earlier
// scheduled firings are superseded via the generation counter; the
// target partition is captured at schedule time so rollover cannot
// retarget a pending write.
func (s *Store) persistSoonLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveGen++
	gen := s.saveGen
	date := s.activeDate

	s.saveTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || gen != s.saveGen {
			return
		}
		// If the date rolled since scheduling, the rollover path has
		// already flushed this partition.
		if date != s.activeDate {
			return
		}
		s.saveTimer = nil
		s.writeSnapshotLocked()
	})
}

// flushPendingLocked writes the pending snapshot immediately, if any.
func (s *Store) flushPendingLocked() {
	if s.saveTimer == nil {
		return
	}
	s.saveTimer.Stop()
	s.saveTimer = nil
	s.saveGen++ // supersede the stopped firing in case it already ran
	s.writeSnapshotLocked()
}

// writeSnapshotLocked serializes the whole table and atomically replaces
// the active partition file. Failures are logged only: the in-memory
// mutation has already succeeded from the caller's perspective.
func (s *Store) writeSnapshotLocked() {
	data, err := marshalPartition(s.table)
	if err != nil {
		s.log.Error("snapshot marshal", "date", s.activeDate, "error", err)
		return
	}
	path := partitionPath(s.dir, s.activeDate)
	if err := writePartitionFile(path, data); err != nil {
		s.log.Error("snapshot write", "date", s.activeDate, "error", err)
		return
	}
	s.log.Info("saved partition", "date", s.activeDate, "records", len(s.table))
}

// Close stops the watcher and the debounce timer and flushes pending
// state. Idempotent; operations after Close return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.stopWatch)
	s.flushPendingLocked()

	return nil
}
