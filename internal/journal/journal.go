package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Entry is one journal line. The zen score and active asset are captured
// at write time so a note keeps its original context.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	ZenScore    int       `json:"zen_score"`
	ActiveAsset string    `json:"active_asset"`
	Note        string    `json:"note"`
}

var header = []string{"timestamp", "zen_score", "active_asset", "note"}

// Journal appends entries to a CSV file. A single mutex serializes
// writers so the file never interleaves.
type Journal struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Journal {
	if path == "" {
		path = "trading_journal.csv"
	}
	return &Journal{path: path}
}

// Append writes one entry, creating the file with a header row on first use.
func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	_, statErr := os.Stat(j.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	record := []string{
		e.Timestamp.Format(time.RFC3339),
		strconv.Itoa(e.ZenScore),
		e.ActiveAsset,
		e.Note,
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Entries reads the whole journal, newest first. A missing file is an
// empty journal, not an error.
func (j *Journal) Entries() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == header[0] {
			continue
		}
		if len(rec) < 4 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("journal line %d: bad timestamp %q", i+1, rec[0])
		}
		score, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("journal line %d: bad zen score %q", i+1, rec[1])
		}
		entries = append(entries, Entry{
			Timestamp:   ts,
			ZenScore:    score,
			ActiveAsset: rec[2],
			Note:        rec[3],
		})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Timestamp.After(entries[b].Timestamp)
	})
	return entries, nil
}
