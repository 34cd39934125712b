package sign

import (
	"strings"
	"time"
)

// Separator is placed between transcript entries.
const Separator = "\n\n"

// Commit is one label accepted into a transcript.
type Commit struct {
	Label Label     `json:"label"`
	At    time.Time `json:"at"`
	// Seq is the 1-based position in the transcript.
	Seq int `json:"seq"`
}

// Transcript is an append-only list of committed labels.
type Transcript struct {
	commits []Commit
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a label and returns the resulting commit.
func (t *Transcript) Append(label Label, at time.Time) Commit {
	c := Commit{Label: label, At: at, Seq: len(t.commits) + 1}
	t.commits = append(t.commits, c)
	return c
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.commits)
}

// Last returns the newest label, or None when empty.
func (t *Transcript) Last() Label {
	if len(t.commits) == 0 {
		return None
	}
	return t.commits[len(t.commits)-1].Label
}

// Labels returns a copy of the committed labels in order.
func (t *Transcript) Labels() []Label {
	labels := make([]Label, len(t.commits))
	for i, c := range t.commits {
		labels[i] = c.Label
	}
	return labels
}

// Commits returns a copy of the commits in order.
func (t *Transcript) Commits() []Commit {
	return append([]Commit(nil), t.commits...)
}

// Clear empties the transcript.
func (t *Transcript) Clear() {
	t.commits = nil
}

// String renders the display text of every entry separated by a blank line.
func (t *Transcript) String() string {
	parts := make([]string, len(t.commits))
	for i, c := range t.commits {
		parts[i] = c.Label.Text()
	}
	return strings.Join(parts, Separator)
}
