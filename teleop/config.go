package teleop

import (
	"os"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/ros"
)

// MQTTConfig locates the broker the session talks through.
type MQTTConfig struct {
	Broker   string
	ClientID string
	QoS      byte
	Timeout  time.Duration
}

// Config describes one teleop session.
type Config struct {
	Namespace      string
	Period         time.Duration
	IdleTicks      int
	LinearScale    float64
	AngularScale   float64
	StrictDecoding bool
	Camera         bool
	Remap          ros.NameMap
	MQTT           MQTTConfig
}

// DefaultConfig returns the settings used for keys a config file omits.
func DefaultConfig() Config {
	return Config{
		Period:       DefaultPeriod,
		IdleTicks:    DefaultIdleLimit,
		LinearScale:  DefaultLinearScale,
		AngularScale: DefaultAngularScale,
		Remap:        ros.NameMap{},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "zteleop",
			Timeout:  2 * time.Second,
		},
	}
}

var configPaths = [][]string{
	{"namespace"},
	{"period_ms"},
	{"idle_ticks"},
	{"linear_scale"},
	{"angular_scale"},
	{"strict_decoding"},
	{"camera"},
	{"mqtt", "broker"},
	{"mqtt", "client_id"},
	{"mqtt", "qos"},
	{"mqtt", "timeout_ms"},
}

// LoadConfig parses a JSON document over DefaultConfig. Unknown keys are
// ignored; a known key with a value of the wrong type is an error.
func LoadConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	var firstErr error
	fail := func(err error, path []string) {
		if firstErr == nil {
			firstErr = errors.Wrapf(err, "config key %v", path)
		}
	}

	jsonparser.EachKey(data, func(idx int, value []byte, vt jsonparser.ValueType, err error) {
		path := configPaths[idx]
		if err != nil {
			fail(err, path)
			return
		}
		switch idx {
		case 0:
			config.Namespace, err = parseString(value, vt)
		case 1:
			var ms int64
			if ms, err = parseInt(value, vt); err == nil {
				if ms <= 0 {
					err = errors.Errorf("must be positive, got %d", ms)
				}
				config.Period = time.Duration(ms) * time.Millisecond
			}
		case 2:
			var n int64
			if n, err = parseInt(value, vt); err == nil {
				if n <= 0 {
					err = errors.Errorf("must be positive, got %d", n)
				}
				config.IdleTicks = int(n)
			}
		case 3:
			config.LinearScale, err = parseFloat(value, vt)
		case 4:
			config.AngularScale, err = parseFloat(value, vt)
		case 5:
			config.StrictDecoding, err = parseBool(value, vt)
		case 6:
			config.Camera, err = parseBool(value, vt)
		case 7:
			config.MQTT.Broker, err = parseString(value, vt)
		case 8:
			config.MQTT.ClientID, err = parseString(value, vt)
		case 9:
			var qos int64
			if qos, err = parseInt(value, vt); err == nil {
				if qos < 0 || qos > 2 {
					err = errors.Errorf("qos must be 0, 1 or 2, got %d", qos)
				}
				config.MQTT.QoS = byte(qos)
			}
		case 10:
			var ms int64
			if ms, err = parseInt(value, vt); err == nil {
				config.MQTT.Timeout = time.Duration(ms) * time.Millisecond
			}
		}
		if err != nil {
			fail(err, path)
		}
	}, configPaths...)
	if firstErr != nil {
		return Config{}, firstErr
	}

	remap, vt, _, err := jsonparser.Get(data, "remap")
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return Config{}, errors.Wrap(err, "config key remap")
	}
	if err == nil {
		if vt != jsonparser.Object {
			return Config{}, errors.Errorf("config key remap: expected object, got %s", vt)
		}
		err = jsonparser.ObjectEach(remap, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
			to, err := parseString(value, vt)
			if err != nil {
				return errors.Wrapf(err, "remap %s", key)
			}
			config.Remap[string(key)] = to
			return nil
		})
		if err != nil {
			return Config{}, errors.Wrap(err, "config key remap")
		}
	}
	return config, nil
}

// LoadConfigFile reads and parses the JSON config at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	config, err := LoadConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	return config, nil
}

func expect(vt, want jsonparser.ValueType) error {
	if vt != want {
		return errors.Errorf("expected %s, got %s", want, vt)
	}
	return nil
}

func parseString(value []byte, vt jsonparser.ValueType) (string, error) {
	if err := expect(vt, jsonparser.String); err != nil {
		return "", err
	}
	return jsonparser.ParseString(value)
}

func parseInt(value []byte, vt jsonparser.ValueType) (int64, error) {
	if err := expect(vt, jsonparser.Number); err != nil {
		return 0, err
	}
	return jsonparser.ParseInt(value)
}

func parseFloat(value []byte, vt jsonparser.ValueType) (float64, error) {
	if err := expect(vt, jsonparser.Number); err != nil {
		return 0, err
	}
	return jsonparser.ParseFloat(value)
}

func parseBool(value []byte, vt jsonparser.ValueType) (bool, error) {
	if err := expect(vt, jsonparser.Boolean); err != nil {
		return false, err
	}
	return jsonparser.ParseBoolean(value)
}
