package models

import (
	"time"

	"github.com/goccy/go-json"
)

// EmotionHistoryCapacity is the number of records kept per child
const EmotionHistoryCapacity = 50

// Emotion record sources
const (
	SourceManual  = "manual"
	SourceMLModel = "ml_model"
)

// EmotionRecord is one observed emotion, trusted or not
type EmotionRecord struct {
	ID            string    `json:"id"`
	Emotion       string    `json:"emotion"`
	OriginalLabel string    `json:"originalLabel"`
	Confidence    float64   `json:"confidence"`
	Margin        *float64  `json:"margin,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source,omitempty"`
}

// EmotionHistory is a fixed-capacity ring buffer of emotion records.
// Appending to a full buffer evicts the oldest record. The zero value is
// an empty history with EmotionHistoryCapacity slots.
type EmotionHistory struct {
	buf   []EmotionRecord
	start int
	size  int
}

// NewEmotionHistory builds a history from records ordered oldest first,
// keeping only the newest EmotionHistoryCapacity of them.
func NewEmotionHistory(records []EmotionRecord) EmotionHistory {
	var h EmotionHistory
	for _, r := range records {
		h.Append(r)
	}
	return h
}

// Append adds a record and reports whether an older record was evicted
func (h *EmotionHistory) Append(r EmotionRecord) bool {
	if h.buf == nil {
		h.buf = make([]EmotionRecord, EmotionHistoryCapacity)
	}
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = r
		h.size++
		return false
	}
	h.buf[h.start] = r
	h.start = (h.start + 1) % len(h.buf)
	return true
}

// Len returns the number of stored records
func (h EmotionHistory) Len() int {
	return h.size
}

// Records returns a copy of the stored records, oldest first
func (h EmotionHistory) Records() []EmotionRecord {
	out := make([]EmotionRecord, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Latest returns the newest record, if any
func (h EmotionHistory) Latest() (EmotionRecord, bool) {
	if h.size == 0 {
		return EmotionRecord{}, false
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)], true
}

// Clone returns an independent copy
func (h EmotionHistory) Clone() EmotionHistory {
	return NewEmotionHistory(h.Records())
}

func (h EmotionHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Records())
}

func (h *EmotionHistory) UnmarshalJSON(data []byte) error {
	var records []EmotionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	*h = NewEmotionHistory(records)
	return nil
}
