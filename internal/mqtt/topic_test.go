package mqtt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldtrail/iot-broker/internal/mqtt"
)

func TestParseTopic_TooFewSegments(t *testing.T) {
	_, err := mqtt.ParseTopic("iot/data")
	require.Error(t, err)
}

func TestParseTopic_WrongPrefix(t *testing.T) {
	_, err := mqtt.ParseTopic("weather/data/temp/dev1")
	require.Error(t, err)
}

func TestParseTopic_UnknownDataKind(t *testing.T) {
	_, err := mqtt.ParseTopic("iot/data/humidity/dev1")
	require.Error(t, err)
}

func TestParseTopic_UnknownCategory(t *testing.T) {
	_, err := mqtt.ParseTopic("iot/firmware/update")
	require.Error(t, err)
}

func TestParseTopic_Temp(t *testing.T) {
	meta, err := mqtt.ParseTopic("iot/data/temp/device-1/kitchen")
	require.NoError(t, err)
	require.Equal(t, mqtt.IoT(mqtt.IoTTemp), meta.Kind)
	require.Equal(t, "device-1", meta.DeviceID)
}

func TestParseTopic_GPS(t *testing.T) {
	meta, err := mqtt.ParseTopic("iot/data/gps/device-2")
	require.NoError(t, err)
	require.Equal(t, mqtt.IoT(mqtt.IoTGPS), meta.Kind)
	require.Equal(t, "device-2", meta.DeviceID)
}

func TestParseTopic_Health(t *testing.T) {
	meta, err := mqtt.ParseTopic("iot/health/device-3")
	require.NoError(t, err)
	require.Equal(t, mqtt.Health, meta.Kind)
	require.Equal(t, "device-3", meta.DeviceID)
}

func TestParseTopic_Log(t *testing.T) {
	meta, err := mqtt.ParseTopic("iot/log/device-4")
	require.NoError(t, err)
	require.Equal(t, mqtt.Log, meta.Kind)
}

func TestParseTopic_TempWithoutDeviceSegment(t *testing.T) {
	_, err := mqtt.ParseTopic("iot/data/temp")
	require.Error(t, err)
}

func TestParseTopic_GPSWithoutDeviceSegment(t *testing.T) {
	meta, err := mqtt.ParseTopic("iot/data/gps")
	require.NoError(t, err)
	require.Empty(t, meta.DeviceID)
}

func TestDecodePayload_Temp(t *testing.T) {
	msg, err := mqtt.DecodePayload(mqtt.IoT(mqtt.IoTTemp), []byte(`{"temp":39.9,"time":99999999}`))
	require.NoError(t, err)
	require.NotNil(t, msg.Temp)
	require.Equal(t, float32(39.9), msg.Temp.Temp)
	require.Equal(t, uint64(99999999), msg.Temp.Time)
}

func TestDecodePayload_GPSUnimplemented(t *testing.T) {
	_, err := mqtt.DecodePayload(mqtt.IoT(mqtt.IoTGPS), []byte(`{"lat":1,"lon":2}`))
	require.Error(t, err)
}

func TestDecodePayload_InvalidJSON(t *testing.T) {
	_, err := mqtt.DecodePayload(mqtt.IoT(mqtt.IoTTemp), []byte(`not json`))
	require.Error(t, err)

	var mqttErr *mqtt.Error
	require.ErrorAs(t, err, &mqttErr)
	require.Equal(t, mqtt.ErrInternal, mqttErr.Kind)
}
