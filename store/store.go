// Package store holds the call records loaded at startup. A Store is never
// modified after it is built, so it is safe for concurrent readers.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AVVKavvk/calls-qa/models"
)

var (
	// ErrNotFound indicates no call with the requested id was loaded.
	ErrNotFound = errors.New("call not found")

	// ErrInvalidRecord indicates the calls file failed validation.
	ErrInvalidRecord = errors.New("invalid call record")
)

type Store struct {
	calls map[string]models.CallRecord
	ids   []string
}

// LoadFile reads and validates the calls file at path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calls file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a JSON array of call records. Any malformed entry, or one
// missing a required field, fails the whole load.
func Load(r io.Reader) (*Store, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode calls: %v", ErrInvalidRecord, err)
	}

	records := make([]models.CallRecord, len(raw))
	for i, data := range raw {
		if err := json.Unmarshal(data, &records[i]); err != nil {
			return nil, &ValidationError{Index: i, Field: "record", Reason: err.Error()}
		}
		if err := checkRequired(i, records[i].ID, data); err != nil {
			return nil, err
		}
	}
	return FromRecords(records)
}

// FromRecords validates records and indexes them by id. Each record's
// metadata gets its call id filled in.
func FromRecords(records []models.CallRecord) (*Store, error) {
	s := &Store{
		calls: make(map[string]models.CallRecord, len(records)),
		ids:   make([]string, 0, len(records)),
	}
	for i, rec := range records {
		if err := validate(i, rec); err != nil {
			return nil, err
		}
		if _, dup := s.calls[rec.ID]; dup {
			return nil, &ValidationError{Index: i, ID: rec.ID, Field: "id", Reason: "duplicate id"}
		}

		// parties are shared with the caller's slice otherwise
		rec.CallMetadata.Parties = copyParties(rec.CallMetadata.Parties)
		rec.CallMetadata.CallID = rec.ID

		s.calls[rec.ID] = rec
		s.ids = append(s.ids, rec.ID)
	}
	return s, nil
}

// Get returns the record for id or ErrNotFound.
func (s *Store) Get(id string) (models.CallRecord, error) {
	rec, ok := s.calls[id]
	if !ok {
		return models.CallRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// IDs returns the call ids in file order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Store) Len() int {
	return len(s.ids)
}

func copyParties(in []models.Party) []models.Party {
	if in == nil {
		return nil
	}
	out := make([]models.Party, len(in))
	for i, p := range in {
		if p.Email != nil {
			email := *p.Email
			p.Email = &email
		}
		if p.Profile != nil {
			profile := *p.Profile
			p.Profile = &profile
		}
		out[i] = p
	}
	return out
}
