package business

// Reading is the wire shape carried between ingestor, normalizer, and
// dispatcher: a TempMessage plus the device identifier that only lives in
// the inbound MQTT topic, not in the JSON payload itself.
type Reading struct {
	DeviceID string  `json:"deviceId"`
	Temp     float32 `json:"temp"`
	Time     uint64  `json:"time"`
}
