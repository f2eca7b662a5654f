package messaging

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/magic-search/pkg/types"
)

type fakeAcknowledger struct {
	acked  int
	nacked int
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacked++
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked++
	return nil
}

func TestGetName(t *testing.T) {
	assert.Equal(t, "se_facets_changed", getName("se", FacetsChanged))
}

func TestDecodeFacetsChanged(t *testing.T) {
	payload, err := DecodeFacetsChanged([]byte(`{"choices":[{"name":"status","label":"Status","options":[{"key":"active","label":"Active"}]}],"query":"status=active"}`))
	require.NoError(t, err)
	require.Len(t, payload.Choices, 1)
	assert.True(t, payload.Choices[0].HasOptions())
	require.NotNil(t, payload.Query)
	assert.Equal(t, "status=active", *payload.Query)

	payload, err = DecodeFacetsChanged(nil)
	require.NoError(t, err)
	assert.Nil(t, payload.Choices)
	assert.Nil(t, payload.Query)

	_, err = DecodeFacetsChanged([]byte(`{"choices":[{"name":"a"},{"name":"a"}]}`))
	assert.Error(t, err)

	_, err = DecodeFacetsChanged([]byte(`{`))
	assert.Error(t, err)
}

func TestHandleDeliveryAcks(t *testing.T) {
	ack := &fakeAcknowledger{}
	var received []types.FacetsChanged
	filter := facetsChangedFilter(func(fc types.FacetsChanged) error {
		received = append(received, fc)
		return nil
	})

	handleDelivery(amqp.Delivery{Acknowledger: ack, Body: []byte(`{}`)}, FacetsChanged, filter)
	assert.Equal(t, 1, ack.acked)
	assert.Len(t, received, 1)

	handleDelivery(amqp.Delivery{Acknowledger: ack, Body: []byte(`not json`)}, FacetsChanged, filter)
	assert.Equal(t, 1, ack.nacked)
	assert.Len(t, received, 1)
}

func TestHandleDeliveryHandlerError(t *testing.T) {
	ack := &fakeAcknowledger{}
	filter := facetsChangedFilter(func(fc types.FacetsChanged) error {
		return errors.New("store down")
	})
	handleDelivery(amqp.Delivery{Acknowledger: ack}, FacetsChanged, filter)
	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
}
