// Partition snapshot serialization with atomic replacement.
// Readers of a partition file never observe a partially written
// snapshot: writes go to a temp file in the same directory, are synced,
// then renamed over the target.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// marshalPartition renders the table as an indented JSON array in
// ascending id order.
func marshalPartition(table map[int64]types.Member) ([]byte, error) {
	records := make([]types.Member, 0, len(table))
	for _, m := range table {
		records = append(records, m)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling partition: %w", err)
	}
	return data, nil
}

// writePartitionFile atomically replaces path with data using the
// temp-file, fsync, rename pattern.
func writePartitionFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".members-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// readPartitionFile parses a partition file into records. The caller
// distinguishes missing files (os.IsNotExist) from corrupt ones.
func readPartitionFile(path string) ([]types.Member, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []types.Member
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
