package messaging

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/magic-search/pkg/common/jsoncompat"
	"github.com/matst80/magic-search/pkg/types"
)

// DecodeFacetsChanged reads a facets changed message. An empty body is a
// plain refresh request.
func DecodeFacetsChanged(body []byte) (types.FacetsChanged, error) {
	payload := types.FacetsChanged{}
	if len(body) == 0 {
		return payload, nil
	}
	if err := jsoncompat.Unmarshal(body, &payload); err != nil {
		return payload, fmt.Errorf("decode facets changed: %w", err)
	}
	if err := types.ValidateChoices(payload.Choices); err != nil {
		return payload, err
	}
	return payload, nil
}

func facetsChangedFilter(fn func(types.FacetsChanged) error) func(amqp.Delivery) error {
	return func(d amqp.Delivery) error {
		payload, err := DecodeFacetsChanged(d.Body)
		if err != nil {
			return err
		}
		return fn(payload)
	}
}

// ListenToFacetsChanged calls fn for every facets changed message of the
// prefix.
func ListenToFacetsChanged(conn *amqp.Connection, prefix string, fn func(types.FacetsChanged) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err = DefineTopic(ch, prefix, FacetsChanged); err != nil {
		ch.Close()
		return err
	}
	return ListenToTopic(ch, prefix, FacetsChanged, facetsChangedFilter(fn))
}
