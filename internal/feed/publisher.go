package feed

import (
	"encoding/json"
	"fmt"

	zmq "github.com/pebbe/zmq4"
)

// Topic every transition event is published under.
const TransitionTopic = "transition"

// TransitionEvent is one applied transition, broadcast to subscribers.
// It mirrors the processor outcome, not the persisted record: the season
// fields are empty for an Initialize.
type TransitionEvent struct {
	RequestID     string `json:"request-id"`
	Address       string `json:"address"`
	Epoch         uint64 `json:"epoch"`
	Instruction   string `json:"instruction"`
	Season        string `json:"season,omitempty"`
	Position      uint8  `json:"position,omitempty"`
	Points        uint16 `json:"points,omitempty"`
	Champion      bool   `json:"champion,omitempty"`
	TotalTrophies uint64 `json:"total-trophies"`
	SeasonsPlayed uint8  `json:"seasons-played"`
}

// Publisher broadcasts applied transitions to whoever listens.
type Publisher interface {
	PublishTransition(ev TransitionEvent) error
	Close()
}

// ZMQPublisher pushes transition events out on a ZeroMQ PUB socket.
// Subscribers that connect late simply miss earlier events; the feed is an
// observability side channel, not a source of truth.
type ZMQPublisher struct {
	ctx    *zmq.Context
	socket *zmq.Socket
}

func NewZMQPublisher(port uint16) (*ZMQPublisher, error) {

	context, err := zmq.NewContext()
	if err != nil {
		return nil, err
	}

	socket, err := context.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("Error during the creation of the PUB ZMQ4 socket")
	}

	if err := socket.Bind(fmt.Sprintf("tcp://*:%d", port)); err != nil {
		socket.Close()
		return nil, fmt.Errorf("Could not bind the feed socket on port %d", port)
	}

	return &ZMQPublisher{
		context,
		socket,
	}, nil
}

func (p *ZMQPublisher) PublishTransition(ev TransitionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.socket.SendMessage(TransitionTopic, payload)
	return err
}

func (p *ZMQPublisher) Close() {
	p.socket.Close()
	p.ctx.Term()
}

// NopPublisher drops every event. Used when the feed port is not configured
// and in tests.
type NopPublisher struct{}

func (NopPublisher) PublishTransition(TransitionEvent) error { return nil }
func (NopPublisher) Close()                                  {}
