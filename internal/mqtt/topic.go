package mqtt

import (
	"encoding/json"
	"strings"
)

// Error is the MQTT error taxonomy from spec.md §7.
type Error struct {
	Kind  ErrorKind
	Topic string
	Cause error
}

type ErrorKind string

const (
	ErrUnknownMessageKind ErrorKind = "unknown_message_kind"
	ErrUnformattedTopic   ErrorKind = "unformatted_topic"
	ErrInternal           ErrorKind = "internal_error"
	ErrSubscribe          ErrorKind = "subscribe_error"
	ErrPublish            ErrorKind = "publish_error"
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + " (topic=" + e.Topic + "): " + e.Cause.Error()
	}
	return string(e.Kind) + " (topic=" + e.Topic + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

// ParseTopic validates and parses an inbound topic into MessageMetadata.
// A topic needs at least 3 "/"-separated segments with segment 0 equal
// to "iot", else ErrUnformattedTopic. Segment 1 selects the category:
// "data" (segment 2 then selects temp/gps), "health", or "log"; anything
// else is ErrUnknownMessageKind. The "temp" kind additionally requires a
// 4th segment carrying the device id, else ErrUnformattedTopic.
func ParseTopic(topic string) (MessageMetadata, error) {
	segments := strings.Split(topic, "/")
	if len(segments) < 3 || segments[0] != "iot" {
		return MessageMetadata{}, &Error{Kind: ErrUnformattedTopic, Topic: topic}
	}

	switch segments[1] {
	case "data":
		switch IoTServiceKind(segments[2]) {
		case IoTTemp:
			if len(segments) < 4 {
				return MessageMetadata{}, &Error{Kind: ErrUnformattedTopic, Topic: topic}
			}
			return MessageMetadata{Kind: IoT(IoTTemp), Topic: topic, DeviceID: segments[3]}, nil
		case IoTGPS:
			deviceID := ""
			if len(segments) >= 4 {
				deviceID = segments[3]
			}
			return MessageMetadata{Kind: IoT(IoTGPS), Topic: topic, DeviceID: deviceID}, nil
		default:
			return MessageMetadata{}, &Error{Kind: ErrUnknownMessageKind, Topic: topic}
		}
	case "health":
		return MessageMetadata{Kind: Health, Topic: topic, DeviceID: segments[2]}, nil
	case "log":
		return MessageMetadata{Kind: Log, Topic: topic, DeviceID: segments[2]}, nil
	default:
		return MessageMetadata{}, &Error{Kind: ErrUnknownMessageKind, Topic: topic}
	}
}

// DecodePayload decodes body per kind. Only IoT(Temp) has a decoder;
// every other kind — including the recognized-but-unimplemented
// IoT(GPS) — is ErrUnknownMessageKind.
func DecodePayload(kind MetadataKind, body []byte) (Message, error) {
	if kind.Category == "iot" && kind.IoTKind == IoTTemp {
		var tm TempMessage
		if err := json.Unmarshal(body, &tm); err != nil {
			return Message{}, &Error{Kind: ErrInternal, Cause: err}
		}
		return Message{Temp: &tm}, nil
	}

	return Message{}, &Error{Kind: ErrUnknownMessageKind}
}
