package remote

import "context"

// Bus is the minimal message-bus client surface the remote adapter needs.
// Connection, reconnection, and topic subscription mechanics are explicitly
// out of scope for the core (spec.md §1); this interface is the seam the
// core specifies, with internal/remote/bus providing the concrete backend.
type Bus interface {
	Connect(ctx context.Context) error
	Disconnect()
	Subscribe(topic string, qos byte, handler func(payload []byte)) error
	Publish(topic string, qos byte, payload []byte) error
}

// BuildTopic constructs a three-part "<role>/<id>/<plug>" topic, matching
// the original implementation's build_topic helper. role identifies this
// agent's logical kind ("soundscape"); id is "+" for a wildcard subscriber
// unless overridden via --tether.subscribe.id.
func BuildTopic(role, id, plug string) string {
	return role + "/" + id + "/" + plug
}
