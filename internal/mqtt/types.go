// Package mqtt is the MQTT ingress: topic parsing, payload decoding, and
// a per-kind controller dispatch table, grounded on
// original_source/infra/src/mqtt/client.rs and mqtt/types.rs.
package mqtt

import "context"

// IoTServiceKind distinguishes the telemetry-shaped topics under
// "iot/data/...".
type IoTServiceKind string

const (
	IoTTemp IoTServiceKind = "temp"
	IoTGPS  IoTServiceKind = "gps"
)

// MetadataKind is the dispatch-table key derived from a topic. It is a
// plain comparable struct so it can key a Go map the way
// mqtt/types.rs's MetadataKind derives Hash+Eq.
type MetadataKind struct {
	Category string // "iot", "health", "log"
	IoTKind  IoTServiceKind // only meaningful when Category == "iot"
}

func IoT(kind IoTServiceKind) MetadataKind { return MetadataKind{Category: "iot", IoTKind: kind} }

var (
	Health = MetadataKind{Category: "health"}
	Log    = MetadataKind{Category: "log"}
)

// MessageMetadata is what a topic parses into. DeviceID is segment 3 for
// "data" topics ("iot/data/temp/device_id/location") and segment 2 for
// "health"/"log" topics ("iot/health/device_id").
type MessageMetadata struct {
	Kind     MetadataKind
	Topic    string
	DeviceID string
}

// TempMessage is the only payload shape with a decoder today — GPS is a
// recognized MetadataKind (see SPEC_FULL.md §5) whose decoder is
// intentionally unimplemented, mirroring the original's asymmetry.
type TempMessage struct {
	Temp float32 `json:"temp"`
	Time uint64  `json:"time"`
}

// Message is the decoded payload handed to a Controller.
type Message struct {
	Temp *TempMessage
}

// Controller executes the business logic for one MetadataKind. Unlike
// original_source/infra/src/mqtt/topology.rs's ConsumerHandler, Exec
// takes a context.Context — spec.md asks for it explicitly at this I/O
// boundary (see SPEC_FULL.md §5).
type Controller interface {
	Exec(ctx context.Context, meta MessageMetadata, msg Message) error
}
