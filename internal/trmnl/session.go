package trmnl

import (
	"time"
)

// Session tracks what was last transmitted to the display device. It is a
// process-lifetime object mutated only after a successful transmission and
// consulted by the change detector to gate future sends.
//
// The scheduled poll loop and the interactive control surface may touch a
// session concurrently. That race is accepted: at worst it costs one extra
// or one skipped transmission, and staleness tolerance is high.
type Session struct {
	lastSentAt      time.Time
	lastSentContent string
	sent            uint64
}

// NewSession returns an empty session with no transmission history.
func NewSession() *Session {
	return &Session{}
}

// Record stores the transmitted content and timestamp and increments the
// send counter.
func (s *Session) Record(content string, sentAt time.Time) {
	s.lastSentContent = content
	s.lastSentAt = sentAt
	s.sent++
}

// LastSentAt returns the time of the last successful transmission.
func (s *Session) LastSentAt() time.Time {
	return s.lastSentAt
}

// LastSentContent returns the content of the last successful transmission.
func (s *Session) LastSentContent() string {
	return s.lastSentContent
}

// Sent returns the number of successful transmissions.
func (s *Session) Sent() uint64 {
	return s.sent
}
