package remote

import (
	"context"
	"log"
)

// Role is this agent's logical Tether-style role segment, used when
// building topics.
const Role = "soundscape"

// InboundMessage pairs a received payload with the plug it arrived on.
type InboundMessage struct {
	Plug    string
	Payload []byte
}

// Adapter is the remote adapter of spec.md §4.7: it subscribes to the
// three inbound plugs and buffers what arrives for the coordinator to
// drain non-blockingly each tick, and exposes outbound state/event
// publication.
type Adapter struct {
	bus          Bus
	subscriberID string
	selfID       string
	commandsQoS  byte

	inbound chan InboundMessage
}

// defaultSelfID is this agent's own instance id segment used when
// publishing, absent an explicit --tether.id override — the Tether
// convention for an agent that doesn't care to distinguish itself from
// other instances of the same role.
const defaultSelfID = "any"

// NewAdapter constructs an Adapter. subscriberID is "+" (wildcard) unless
// overridden by --tether.subscribe.id, and selects which OTHER agents'
// messages this adapter subscribes to. selfID is THIS agent's own id
// segment, used to build the topics it publishes state/events under
// ("any" unless overridden by --tether.id) — the two are independent:
// subscriberID filters inbound traffic, selfID labels outbound traffic.
// commandsQoS is the QoS used to subscribe to the three inbound plugs
// (default 2, per the original implementation; overridable via
// --mqtt.qos.commands).
func NewAdapter(bus Bus, subscriberID, selfID string, commandsQoS byte) *Adapter {
	if subscriberID == "" {
		subscriberID = "+"
	}
	if selfID == "" {
		selfID = defaultSelfID
	}
	return &Adapter{bus: bus, subscriberID: subscriberID, selfID: selfID, commandsQoS: commandsQoS, inbound: make(chan InboundMessage, 256)}
}

// Start connects the bus and subscribes to clipCommands, scenes, and
// globalControls, all at the adapter's configured commands QoS.
func (a *Adapter) Start(ctx context.Context) error {
	if err := a.bus.Connect(ctx); err != nil {
		return err
	}
	for _, plug := range []string{PlugClipCommands, PlugScenes, PlugGlobalControls} {
		p := plug
		topic := BuildTopic("+", a.subscriberID, p)
		if err := a.bus.Subscribe(topic, a.commandsQoS, func(payload []byte) {
			a.deliver(p, payload)
		}); err != nil {
			return err
		}
	}
	return nil
}

// deliver enqueues an inbound message without blocking; under sustained
// overload the oldest message is dropped and logged rather than blocking
// the bus client's own callback goroutine.
func (a *Adapter) deliver(plug string, payload []byte) {
	msg := InboundMessage{Plug: plug, Payload: append([]byte(nil), payload...)}
	select {
	case a.inbound <- msg:
	default:
		select {
		case <-a.inbound:
		default:
		}
		select {
		case a.inbound <- msg:
		default:
			log.Printf("[remote] dropped inbound message on %q: queue full", plug)
		}
	}
}

// TryRecv non-blockingly pops the next buffered inbound message.
func (a *Adapter) TryRecv() (InboundMessage, bool) {
	select {
	case m := <-a.inbound:
		return m, true
	default:
		return InboundMessage{}, false
	}
}

// Stop disconnects the underlying bus client.
func (a *Adapter) Stop() {
	a.bus.Disconnect()
}

// PublishState encodes and publishes a state snapshot on the "state" plug
// (QoS 0, per spec.md §6.2), under this agent's own three-part topic so a
// wildcard "+/+/state" subscriber receives it.
func (a *Adapter) PublishState(clips []ClipSnapshot) error {
	payload, err := EncodeState(clips)
	if err != nil {
		return err
	}
	return a.bus.Publish(BuildTopic(Role, a.selfID, PlugState), 0, payload)
}

// PublishClipStarted publishes a ClipStarted event (QoS 2).
func (a *Adapter) PublishClipStarted(name string) error {
	payload, err := EncodeClipStarted(name)
	if err != nil {
		return err
	}
	return a.bus.Publish(BuildTopic(Role, a.selfID, PlugEvents), 2, payload)
}

// PublishClipEnded publishes a ClipEnded event (QoS 2).
func (a *Adapter) PublishClipEnded(name string) error {
	payload, err := EncodeClipEnded(name)
	if err != nil {
		return err
	}
	return a.bus.Publish(BuildTopic(Role, a.selfID, PlugEvents), 2, payload)
}
