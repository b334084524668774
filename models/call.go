package models

import "time"

// CallRecord is one recorded call as stored in the calls file.
type CallRecord struct {
	ID           string       `json:"id"`
	CreatedAtUTC time.Time    `json:"created_at_utc"`
	CallMetadata CallMetadata `json:"call_metadata"`
	Transcript   Transcript   `json:"transcript"`
}

// CallMetadata is the display data for a call. CallID mirrors CallRecord.ID
// and is filled in when the record is loaded.
type CallMetadata struct {
	CallID    string    `json:"call_id,omitempty"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"`
	StartTime time.Time `json:"start_time"`
	Parties   []Party   `json:"parties"`
}

type Party struct {
	Name    string   `json:"name"`
	Email   *string  `json:"email"`
	Profile *Profile `json:"profile"`
}

type Profile struct {
	JobTitle    string `json:"job_title"`
	Location    string `json:"location"`
	PhotoURL    string `json:"photo_url"`
	LinkedinURL string `json:"linkedin_url"`
}

// Transcript lines look like "<0:05> agent (Jane): hello" but the text is
// never parsed.
type Transcript struct {
	Text string `json:"text"`
}
