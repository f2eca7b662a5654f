package tracking

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/magic-search/pkg/messaging"
	"github.com/matst80/magic-search/pkg/types"
)

type sent struct {
	topic messaging.ChangeTopic
	data  any
}

type senderStub struct {
	mu     sync.Mutex
	sent   []sent
	closed bool
}

func (s *senderStub) Send(topic messaging.ChangeTopic, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sent{topic, data})
	return nil
}

func (s *senderStub) Close() error {
	s.closed = true
	return nil
}

func TestTrackingPublishesOnClose(t *testing.T) {
	stub := &senderStub{}
	rt := NewTracking(stub, "se")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-Ip", "10.1.1.1")
	rt.TrackSession("abc", r)
	rt.TrackEvent("abc", types.Event{Kind: types.SearchUpdated, Query: "status=active"})
	rt.TrackEvent("abc", types.Event{Kind: types.TextSearch, Text: "web"})

	require.NoError(t, rt.Close())
	assert.True(t, stub.closed)
	require.Len(t, stub.sent, 3)

	session, ok := stub.sent[0].data.(Session)
	require.True(t, ok)
	assert.Equal(t, SessionTopic, stub.sent[0].topic)
	assert.Equal(t, "10.1.1.1", session.Ip)
	assert.Equal(t, "se", session.Region)

	assert.Equal(t, messaging.SearchUpdated, stub.sent[1].topic)
	ev := stub.sent[1].data.(SearchEvent)
	assert.Equal(t, "status=active", ev.Query)
	assert.Equal(t, "abc", ev.SessionId)

	assert.Equal(t, messaging.TextSearch, stub.sent[2].topic)
}

func TestTrackingSink(t *testing.T) {
	stub := &senderStub{}
	rt := NewTracking(stub, "se")
	sink := &types.TrackingSink{SessionId: "s1", Tracking: rt}
	sink.Emit(types.Event{Kind: types.CheckFacets})
	require.NoError(t, rt.Close())
	require.Len(t, stub.sent, 1)
	assert.Equal(t, messaging.CheckFacets, stub.sent[0].topic)
}
