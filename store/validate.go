package store

import (
	"fmt"
	"net/mail"
	"net/url"

	"github.com/AVVKavvk/calls-qa/models"
)

// ValidationError describes the first problem found in a calls file.
type ValidationError struct {
	Index  int
	ID     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("call %d (id %q): %s: %s", e.Index, e.ID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

func validate(i int, rec models.CallRecord) error {
	fail := func(field, reason string) error {
		return &ValidationError{Index: i, ID: rec.ID, Field: field, Reason: reason}
	}

	if rec.ID == "" {
		return fail("id", "required")
	}
	if rec.CreatedAtUTC.IsZero() {
		return fail("created_at_utc", "required")
	}

	meta := rec.CallMetadata
	if meta.Title == "" {
		return fail("call_metadata.title", "required")
	}
	if meta.Duration < 0 {
		return fail("call_metadata.duration", "must not be negative")
	}
	if meta.StartTime.IsZero() {
		return fail("call_metadata.start_time", "required")
	}

	for j, p := range meta.Parties {
		field := fmt.Sprintf("call_metadata.parties[%d]", j)
		if p.Name == "" {
			return fail(field+".name", "required")
		}
		if p.Email != nil {
			if addr, err := mail.ParseAddress(*p.Email); err != nil || addr.Address != *p.Email {
				return fail(field+".email", "not a valid email address")
			}
		}
		if p.Profile == nil {
			continue
		}
		if err := checkURL(p.Profile.PhotoURL); err != nil {
			return fail(field+".profile.photo_url", err.Error())
		}
		if err := checkURL(p.Profile.LinkedinURL); err != nil {
			return fail(field+".profile.linkedin_url", err.Error())
		}
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must be absolute http(s)")
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}
