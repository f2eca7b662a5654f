package main

import (
	"github.com/matst80/magic-search/pkg/messaging"
	"github.com/matst80/magic-search/pkg/types"
)

// FacetsSender announces changed definitions to the search services.
type FacetsSender interface {
	SendFacetsChanged(payload types.FacetsChanged) error
}

type AmqpSender struct {
	publisher *messaging.Publisher
}

func NewAmqpSender(url, region string) (*AmqpSender, error) {
	publisher, err := messaging.NewPublisher(messaging.RabbitConfig{Url: url, Prefix: region}, messaging.FacetsChanged)
	if err != nil {
		return nil, err
	}
	return &AmqpSender{publisher: publisher}, nil
}

func (s *AmqpSender) SendFacetsChanged(payload types.FacetsChanged) error {
	return s.publisher.Send(messaging.FacetsChanged, payload)
}

func (s *AmqpSender) Close() error {
	return s.publisher.Close()
}
