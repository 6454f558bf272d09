package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// DraftKind names the wizard step a draft came from.
type DraftKind string

const (
	KindCourse DraftKind = "course"
	KindModule DraftKind = "module"
	KindLesson DraftKind = "lesson"
	KindQuiz   DraftKind = "quiz"
)

// ParseDraftKind accepts the four kinds; empty returns "" (any kind).
func ParseDraftKind(s string) (DraftKind, error) {
	switch k := DraftKind(s); k {
	case "", KindCourse, KindModule, KindLesson, KindQuiz:
		return k, nil
	}
	return "", fmt.Errorf("unknown draft kind %q (want course|module|lesson|quiz)", s)
}

// Draft is a locally stored generation result. Payload holds the JSON
// response body; Request holds the JSON request that produced it.
type Draft struct {
	ID        string          `json:"id"`
	Kind      DraftKind       `json:"kind"`
	Title     string          `json:"title"`
	SessionID string          `json:"session_id,omitempty"`
	Request   json.RawMessage `json:"request,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Hash      string          `json:"hash"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewDraft marshals req and resp into a draft with a fresh id and hash.
func NewDraft(kind DraftKind, title, sessionID string, req, resp any) (Draft, error) {
	rb, err := json.Marshal(req)
	if err != nil {
		return Draft{}, fmt.Errorf("marshal request: %w", err)
	}
	pb, err := json.Marshal(resp)
	if err != nil {
		return Draft{}, fmt.Errorf("marshal payload: %w", err)
	}
	now := time.Now().UTC()
	d := Draft{
		ID:        NewID(),
		Kind:      kind,
		Title:     title,
		SessionID: sessionID,
		Request:   rb,
		Payload:   pb,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.Hash = d.ContentHash()
	return d, nil
}

// Decode unmarshals the payload into v.
func (d Draft) Decode(v any) error {
	if err := json.Unmarshal(d.Payload, v); err != nil {
		return fmt.Errorf("decode %s draft %s: %w", d.Kind, d.ID, err)
	}
	return nil
}

// DecodeRequest unmarshals the stored request into v.
func (d Draft) DecodeRequest(v any) error {
	if len(d.Request) == 0 {
		return fmt.Errorf("draft %s has no stored request", d.ID)
	}
	return json.Unmarshal(d.Request, v)
}
