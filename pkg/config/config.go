// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/livekit/protocol/logger"
)

const (
	generatedCLIFlagUsage = "generated"

	StatsLogInterval = time.Second * 10
)

var (
	ErrInvalidClockRate     = errors.New("clock_rate must be positive")
	ErrInvalidMaxPackets    = errors.New("max_packets must not be negative")
	ErrInvalidSSRCThreshold = errors.New("ssrc_changed_threshold must not be negative")
	ErrInvalidPayloadType   = errors.New("payload types must be below 128")

	durationType = reflect.TypeOf(time.Duration(0))
)

type Config struct {
	Port           uint32         `yaml:"port,omitempty"`
	BindAddress    string         `yaml:"bind_address,omitempty"`
	ReadBufferSize int            `yaml:"read_buffer_size,omitempty"`
	PrometheusPort uint32         `yaml:"prometheus_port,omitempty"`
	StatsFile      string         `yaml:"stats_file,omitempty"`
	Receiver       ReceiverConfig `yaml:"receiver,omitempty"`
	Logging        LoggingConfig  `yaml:"logging,omitempty"`

	Development bool `yaml:"development,omitempty"`
}

type ReceiverConfig struct {
	ClockRate uint32 `yaml:"clock_rate,omitempty"`
	// payload type -> clock rate, for payload types not using clock_rate
	PayloadTypes               map[uint8]uint32 `yaml:"payload_types,omitempty"`
	TelephoneEventPayloadTypes []uint8          `yaml:"telephone_event_payload_types,omitempty"`
	MaxPackets                 int              `yaml:"max_packets,omitempty"`
	SSRCChangedThreshold       int              `yaml:"ssrc_changed_threshold,omitempty"`
	TimestampJumpLimit         time.Duration    `yaml:"timestamp_jump_limit,omitempty"`
	SenderSSRC                 uint32           `yaml:"sender_ssrc,omitempty"`
	Feedback                   FeedbackConfig   `yaml:"feedback,omitempty"`
	CongestionDetection        bool             `yaml:"congestion_detection,omitempty"`
	BandwidthEstimation        bool             `yaml:"bandwidth_estimation,omitempty"`
}

type FeedbackConfig struct {
	Enabled       bool `yaml:"enabled,omitempty"`
	GenericNack   bool `yaml:"generic_nack,omitempty"`
	ImmediateNack bool `yaml:"immediate_nack,omitempty"`
}

type LoggingConfig struct {
	logger.Config `yaml:",inline"`
}

var DefaultConfig = Config{
	Port:           5004,
	PrometheusPort: 0,
	Receiver: ReceiverConfig{
		ClockRate:            8000,
		MaxPackets:           100,
		SSRCChangedThreshold: 50,
		TimestampJumpLimit:   5 * time.Second,
		Feedback: FeedbackConfig{
			Enabled:     true,
			GenericNack: true,
		},
	},
	Logging: LoggingConfig{
		Config: logger.Config{
			Level: "info",
		},
	},
}

func NewConfig(confString string, strictMode bool, c *cli.Context, baseFlags []cli.Flag) (*Config, error) {
	// start with defaults
	marshalled, err := yaml.Marshal(&DefaultConfig)
	if err != nil {
		return nil, err
	}

	var conf Config
	if err = yaml.Unmarshal(marshalled, &conf); err != nil {
		return nil, err
	}

	if confString != "" {
		decoder := yaml.NewDecoder(strings.NewReader(confString))
		decoder.KnownFields(strictMode)
		if err := decoder.Decode(&conf); err != nil {
			return nil, errors.Wrap(err, "could not parse config")
		}
	}

	if c != nil {
		if err := conf.updateFromCLI(c, baseFlags); err != nil {
			return nil, err
		}
	}

	if err := conf.Receiver.Validate(); err != nil {
		return nil, errors.Wrap(err, "could not validate receiver config")
	}

	if conf.StatsFile != "" {
		// expand env vars in filenames
		file, err := homedir.Expand(os.ExpandEnv(conf.StatsFile))
		if err != nil {
			return nil, err
		}
		conf.StatsFile = file
	}

	if conf.Development {
		conf.Logging.Level = "debug"
	}

	return &conf, nil
}

func (r *ReceiverConfig) Validate() error {
	if r.ClockRate == 0 {
		return ErrInvalidClockRate
	}
	if r.MaxPackets < 0 {
		return ErrInvalidMaxPackets
	}
	if r.SSRCChangedThreshold < 0 {
		return ErrInvalidSSRCThreshold
	}
	for pt, clockRate := range r.PayloadTypes {
		if pt > 127 {
			return errors.Wrapf(ErrInvalidPayloadType, "payload type %d", pt)
		}
		if clockRate == 0 {
			return errors.Wrapf(ErrInvalidClockRate, "payload type %d", pt)
		}
	}
	for _, pt := range r.TelephoneEventPayloadTypes {
		if pt > 127 {
			return errors.Wrapf(ErrInvalidPayloadType, "telephone event payload type %d", pt)
		}
	}
	return nil
}

type configNode struct {
	TypeNode  reflect.Value
	TagPrefix string
}

// ToCLIFlagNames maps every scalar config field to its dotted yaml path, e.g. receiver.clock_rate.
func (conf *Config) ToCLIFlagNames(existingFlags []cli.Flag) map[string]reflect.Value {
	existingFlagNames := map[string]bool{}
	for _, flag := range existingFlags {
		for _, flagName := range flag.Names() {
			existingFlagNames[flagName] = true
		}
	}

	flagNames := map[string]reflect.Value{}
	var currNode configNode
	nodes := []configNode{{reflect.ValueOf(conf).Elem(), ""}}
	for len(nodes) > 0 {
		currNode, nodes = nodes[0], nodes[1:]
		for i := 0; i < currNode.TypeNode.NumField(); i++ {
			field := currNode.TypeNode.Type().Field(i)
			yamlTagArray := strings.SplitN(field.Tag.Get("yaml"), ",", 2)
			yamlTag := yamlTagArray[0]
			isInline := len(yamlTagArray) > 1 && yamlTagArray[1] == "inline"
			if (yamlTag == "" && (!isInline || currNode.TagPrefix == "")) || yamlTag == "-" {
				continue
			}
			yamlPath := yamlTag
			if currNode.TagPrefix != "" {
				if isInline {
					yamlPath = currNode.TagPrefix
				} else {
					yamlPath = fmt.Sprintf("%s.%s", currNode.TagPrefix, yamlTag)
				}
			}
			if existingFlagNames[yamlPath] {
				continue
			}

			value := currNode.TypeNode.Field(i)
			if value.Kind() == reflect.Struct {
				nodes = append(nodes, configNode{value, yamlPath})
			} else {
				flagNames[yamlPath] = value
			}
		}
	}

	return flagNames
}

func GenerateCLIFlags(existingFlags []cli.Flag, hidden bool) ([]cli.Flag, error) {
	blankConfig := &Config{}
	flags := make([]cli.Flag, 0)
	for name, value := range blankConfig.ToCLIFlagNames(existingFlags) {
		envVar := fmt.Sprintf("RTPRX_%s", strings.ToUpper(strings.ReplaceAll(name, ".", "_")))

		if value.Type() == durationType {
			flags = append(flags, &cli.DurationFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			})
			continue
		}

		var flag cli.Flag
		switch kind := value.Kind(); kind {
		case reflect.Bool:
			flag = &cli.BoolFlag{
				Name:   name,
				Usage:  generatedCLIFlagUsage,
				Hidden: hidden,
			}
		case reflect.String:
			flag = &cli.StringFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Int, reflect.Int32, reflect.Int64:
			flag = &cli.Int64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			flag = &cli.Uint64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Float32, reflect.Float64:
			flag = &cli.Float64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
			// yaml only
			continue
		default:
			return flags, fmt.Errorf("cli flag generation unsupported for config type: %s is a %s", name, kind.String())
		}

		flags = append(flags, flag)
	}

	return flags, nil
}

func (conf *Config) updateFromCLI(c *cli.Context, baseFlags []cli.Flag) error {
	generatedFlagNames := conf.ToCLIFlagNames(baseFlags)
	for _, flag := range c.App.Flags {
		flagName := flag.Names()[0]
		if !c.IsSet(flagName) {
			continue
		}

		configValue, ok := generatedFlagNames[flagName]
		if !ok {
			continue
		}

		if configValue.Type() == durationType {
			configValue.SetInt(int64(c.Duration(flagName)))
			continue
		}

		switch kind := configValue.Kind(); kind {
		case reflect.Bool:
			configValue.SetBool(c.Bool(flagName))
		case reflect.String:
			configValue.SetString(c.String(flagName))
		case reflect.Int, reflect.Int32, reflect.Int64:
			configValue.SetInt(c.Int64(flagName))
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			configValue.SetUint(c.Uint64(flagName))
		case reflect.Float32, reflect.Float64:
			configValue.SetFloat(c.Float64(flagName))
		default:
			return fmt.Errorf("unsupported generated cli flag type for config: %s is a %s", flagName, kind.String())
		}
	}

	if c.IsSet("dev") {
		conf.Development = c.Bool("dev")
	}
	if c.IsSet("bind") {
		conf.BindAddress = c.String("bind")
	}
	if c.IsSet("port") {
		conf.Port = uint32(c.Uint("port"))
	}
	return nil
}

// Note: only pass in logr.Logger with default depth
func SetLogger(l logger.Logger) {
	logger.SetLogger(l, "rtprx")
}

func InitLoggerFromConfig(config *LoggingConfig) {
	logger.InitFromConfig(config.Config, "rtprx")
}
