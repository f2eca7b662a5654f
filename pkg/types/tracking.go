package types

import (
	"net/http"
)

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackEvent(sessionId string, event Event)
	Close() error
}

// TrackingSink forwards session events to a Tracking implementation.
type TrackingSink struct {
	SessionId string
	Tracking  Tracking
}

func (t *TrackingSink) Emit(event Event) {
	if t.Tracking == nil {
		return
	}
	t.Tracking.TrackEvent(t.SessionId, event)
}
