// Package dataset provides the semi-structured record batch exchanged
// between pipeline stages and storage connectors. The routing core never
// inspects a dataset — it is one more opaque payload type.
package dataset

import (
	"encoding/json"
	"sort"
)

// Record is a single semi-structured row.
type Record = map[string]any

// Dataset is an ordered batch of records with a stable column list.
type Dataset struct {
	columns []string
	records []Record
}

// New creates an empty dataset with the given column order.
func New(columns ...string) *Dataset {
	return &Dataset{columns: columns}
}

// FromRecords builds a dataset from existing records. The column list is
// the sorted union of all record keys.
func FromRecords(records []Record) *Dataset {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return &Dataset{columns: columns, records: records}
}

// Append adds records to the end of the dataset.
func (d *Dataset) Append(records ...Record) *Dataset {
	d.records = append(d.records, records...)
	return d
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Columns returns a copy of the column list.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Records returns a copy of the record slice. The records themselves are
// shared.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// At returns the i-th record.
func (d *Dataset) At(i int) Record { return d.records[i] }

// MarshalJSON encodes the records as a JSON array.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.records)
}

// UnmarshalJSON decodes a JSON array of records, rebuilding the column
// list as the sorted union of record keys.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	*d = *FromRecords(records)
	return nil
}
