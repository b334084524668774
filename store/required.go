package store

import (
	"encoding/json"
	"fmt"
)

// presence mirrors the fields of a call record whose zero value is valid,
// so that a missing key can be told apart from an empty one.
type presence struct {
	CallMetadata *struct {
		Duration *int `json:"duration"`
		Parties  *[]struct {
			Profile *struct {
				JobTitle *string `json:"job_title"`
				Location *string `json:"location"`
			} `json:"profile"`
		} `json:"parties"`
	} `json:"call_metadata"`
	Transcript *struct {
		Text *string `json:"text"`
	} `json:"transcript"`
}

func checkRequired(i int, id string, data json.RawMessage) error {
	fail := func(field string) error {
		return &ValidationError{Index: i, ID: id, Field: field, Reason: "required"}
	}

	var p presence
	if err := json.Unmarshal(data, &p); err != nil {
		return &ValidationError{Index: i, ID: id, Field: "record", Reason: err.Error()}
	}

	if p.Transcript == nil || p.Transcript.Text == nil {
		return fail("transcript.text")
	}
	if p.CallMetadata == nil {
		return fail("call_metadata")
	}
	if p.CallMetadata.Duration == nil {
		return fail("call_metadata.duration")
	}
	if p.CallMetadata.Parties == nil {
		return fail("call_metadata.parties")
	}
	for j, party := range *p.CallMetadata.Parties {
		if party.Profile == nil {
			continue
		}
		field := fmt.Sprintf("call_metadata.parties[%d].profile", j)
		if party.Profile.JobTitle == nil {
			return fail(field + ".job_title")
		}
		if party.Profile.Location == nil {
			return fail(field + ".location")
		}
	}
	return nil
}
