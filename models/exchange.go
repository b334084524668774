package models

import (
	"encoding/json"
	"time"
)

// Exchange is an answered question, published for auditing and kept in a
// per-call Redis list.
type Exchange struct {
	CallID     string    `json:"callId"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Standalone bool      `json:"standalone"`
	AskedAt    time.Time `json:"askedAt"`
}

func (e *Exchange) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Exchange) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}
