// Package sink runs external executables ("sinks") that react to session
// events, such as speaking or typing each committed gesture.
package sink

import (
	"encoding/json"

	"github.com/ayusman/signscribe/internal/events"
)

// ManifestFile is the manifest name looked up in every sink directory.
const ManifestFile = "sink.json"

// Manifest describes a sink's metadata and the events it wants.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Events lists event types to deliver. Empty means commits only.
	Events []events.Type `json:"events,omitempty"`
}

// Request is written to the sink's stdin as JSON.
type Request struct {
	Event      events.Type `json:"event"`
	Gesture    string      `json:"gesture,omitempty"`
	Text       string      `json:"text,omitempty"`
	Transcript string      `json:"transcript"`
	SessionID  string      `json:"session_id,omitempty"`
}

// Response is read from the sink's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Sink is a discovered sink with its manifest and location.
type Sink struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether events of type t are delivered to the sink.
func (s *Sink) Wants(t events.Type) bool {
	if len(s.Manifest.Events) == 0 {
		return t == events.TypeCommit
	}
	for _, e := range s.Manifest.Events {
		if e == t {
			return true
		}
	}
	return false
}

// NewRequest builds the request a sink receives for e.
func NewRequest(e events.Event) *Request {
	req := &Request{
		Event:      e.Type,
		Transcript: e.Transcript,
		SessionID:  e.SessionID,
	}
	if e.Type == events.TypeCommit {
		req.Gesture = e.Gesture.String()
		req.Text = e.Text
	}
	return req
}
