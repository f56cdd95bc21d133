package scalardata

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldKey is the identity of a monitored field. Configuring the same key
// twice replaces the configuration rather than duplicating the series.
type FieldKey struct {
	Channel string `yaml:"channel" json:"channel"`
	MsgType string `yaml:"msg_type" json:"msg_type"`
	Field   string `yaml:"field" json:"field"`
}

func (k FieldKey)String() string { return k.Channel + "/" + k.Field }

// FieldConfig is one user-declared subscription: which field of which message
// type on which channel to monitor, how hard to decimate it, and which map
// layer its points land on.
type FieldConfig struct {
	Channel     string  `yaml:"channel" json:"channel"`
	MsgType     string  `yaml:"msg_type" json:"msg_type"`
	Field       string  `yaml:"field" json:"field"`
	SampleHz    float64 `yaml:"sample_hz" json:"sample_hz"`
	LayerName   string  `yaml:"layer_name" json:"layer_name"`
	CreateLayer bool    `yaml:"create_layer" json:"create_layer"`
}

func (fc FieldConfig)Key() FieldKey { return FieldKey{fc.Channel, fc.MsgType, fc.Field} }

func (fc FieldConfig)String() string {
	return fmt.Sprintf("%s (%s.%s @%gHz -> %q)",
		fc.Key(), fc.MsgType, fc.Field, fc.SampleHz, fc.LayerName)
}

// DecimationPeriod is the minimum utime spacing between kept samples, in
// microseconds. Zero (from a zero/unset rate) disables decimation.
func (fc FieldConfig)DecimationPeriod() int64 {
	if fc.SampleHz <= 0 {
		return 0
	}
	return int64(1e6 / fc.SampleHz)
}

// Validate rejects bad subscriptions up front, at configure time; per-message
// ingestion never re-checks any of this.
func (fc FieldConfig)Validate() error {
	if strings.TrimSpace(fc.Channel) == "" {
		return fmt.Errorf("FieldConfig: empty channel name")
	}
	if strings.TrimSpace(fc.MsgType) == "" {
		return fmt.Errorf("FieldConfig %s: empty message type", fc.Channel)
	}
	if strings.TrimSpace(fc.LayerName) == "" {
		return fmt.Errorf("FieldConfig %s: empty layer name", fc.Channel)
	}
	if fc.Field == "" || strings.ContainsAny(fc.Field, ".[]") {
		return fmt.Errorf("FieldConfig %q: %w", fc.Field, ErrUnsupportedFieldShape)
	}
	if fc.SampleHz < 0 || math.IsNaN(fc.SampleHz) || math.IsInf(fc.SampleHz, 0) {
		return fmt.Errorf("FieldConfig %s: bad sample rate %v", fc.Key(), fc.SampleHz)
	}
	return nil
}

// Subscriptions is the set of FieldConfigs that persists across sessions.
// The host project file owns where the bytes live; we own the YAML shape.
type Subscriptions []FieldConfig

func ParseSubscriptions(b []byte) (Subscriptions, error) {
	subs := Subscriptions{}
	if err := yaml.Unmarshal(b, &subs); err != nil {
		return nil, fmt.Errorf("ParseSubscriptions: %v", err)
	}
	return subs, nil
}

func (s Subscriptions)Encode() ([]byte, error) {
	return yaml.Marshal(s)
}
