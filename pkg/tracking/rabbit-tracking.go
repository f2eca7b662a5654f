package tracking

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matst80/magic-search/pkg/common"
	"github.com/matst80/magic-search/pkg/messaging"
	"github.com/matst80/magic-search/pkg/types"
)

// Sender publishes a payload on a topic, messaging.Publisher in production.
type Sender interface {
	Send(topic messaging.ChangeTopic, data any) error
	Close() error
}

const SessionTopic messaging.ChangeTopic = "session"

// RabbitTracking publishes session starts and search session events. Events
// are queued and sent in batches from a background goroutine.
type RabbitTracking struct {
	region string
	sender Sender
	queue  *common.QueueHandler[queued]
}

type queued struct {
	topic messaging.ChangeTopic
	data  any
}

func NewRabbitTracking(url, region string) (*RabbitTracking, error) {
	topics := append([]messaging.ChangeTopic{SessionTopic}, messaging.SessionTopics...)
	publisher, err := messaging.NewPublisher(messaging.RabbitConfig{Url: url, Prefix: region}, topics...)
	if err != nil {
		return nil, err
	}
	return NewTracking(publisher, region), nil
}

func NewTracking(sender Sender, region string) *RabbitTracking {
	rt := &RabbitTracking{
		region: region,
		sender: sender,
	}
	rt.queue = common.NewQueueHandler(rt.flush, 50, 500*time.Millisecond)
	return rt
}

func (rt *RabbitTracking) flush(items []queued) {
	for _, item := range items {
		if err := rt.sender.Send(item.topic, item.data); err != nil {
			log.Error().Err(err).Str("topic", string(item.topic)).Msg("error sending tracking event")
		}
	}
}

// Close sends what is queued and closes the sender.
func (rt *RabbitTracking) Close() error {
	rt.queue.Close()
	return rt.sender.Close()
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Region    string `json:"region,omitempty"`
	Timestamp int64  `json:"ts"`
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

type SearchEvent struct {
	*BaseEvent
	Kind   types.EventKind `json:"kind"`
	Query  string          `json:"query,omitempty"`
	Text   string          `json:"text,omitempty"`
	Facets []types.Facet   `json:"facets,omitempty"`
}

func (rt *RabbitTracking) base(sessionId string) *BaseEvent {
	return &BaseEvent{SessionId: sessionId, Region: rt.region, Timestamp: time.Now().Unix()}
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (rt *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	rt.queue.Add(queued{topic: SessionTopic, data: Session{
		BaseEvent:    rt.base(sessionId),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	}})
}

// TrackEvent queues a search session event on the topic named after its kind.
func (rt *RabbitTracking) TrackEvent(sessionId string, event types.Event) {
	rt.queue.Add(queued{topic: messaging.ChangeTopic(event.Kind), data: SearchEvent{
		BaseEvent: rt.base(sessionId),
		Kind:      event.Kind,
		Query:     event.Query,
		Text:      event.Text,
		Facets:    event.Facets,
	}})
}
