package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultQueueCapacity bounds the wait queue when no capacity is configured.
const DefaultQueueCapacity = 1000

// SimConfig groups the parameters of one simulation run.
// It is immutable once passed to NewSimulator.
type SimConfig struct {
	MeanInterArrival  float64 `yaml:"mean_interarrival" json:"mean_interarrival" mapstructure:"mean_interarrival"`       // minutes, > 0
	MeanService       float64 `yaml:"mean_service" json:"mean_service" mapstructure:"mean_service"`                      // minutes, > 0
	NumDelaysRequired int     `yaml:"num_delays_required" json:"num_delays_required" mapstructure:"num_delays_required"` // termination threshold, > 0
	QueueCapacity     int     `yaml:"queue_capacity" json:"queue_capacity" mapstructure:"queue_capacity"`                // max waiting customers, > 0
	Seed              int64   `yaml:"seed" json:"seed" mapstructure:"seed"`                                              // SimulationKey; 0 = Simlib table
	ArrivalStream     int     `yaml:"arrival_stream" json:"arrival_stream" mapstructure:"arrival_stream"`                // generator stream for inter-arrivals
	ServiceStream     int     `yaml:"service_stream" json:"service_stream" mapstructure:"service_stream"`                // generator stream for service times
	RecordCustomers   bool    `yaml:"record_customers" json:"record_customers" mapstructure:"record_customers"`          // keep per-customer records
}

// DefaultSimConfig returns a config with every optional field at its default
// and the required parameters unset.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		QueueCapacity: DefaultQueueCapacity,
		ArrivalStream: StreamArrival,
		ServiceStream: StreamService,
	}
}

// ArrivalRate returns lambda = 1/MeanInterArrival (customers per minute).
func (c SimConfig) ArrivalRate() float64 {
	return 1 / c.MeanInterArrival
}

// ServiceRate returns mu = 1/MeanService (customers per minute).
func (c SimConfig) ServiceRate() float64 {
	return 1 / c.MeanService
}

// Validate checks every parameter. Errors wrap ErrInvalidConfig.
func (c SimConfig) Validate() error {
	if !isPositiveFinite(c.MeanInterArrival) {
		return fmt.Errorf("%w: mean_interarrival must be a positive number, got %v", ErrInvalidConfig, c.MeanInterArrival)
	}
	if !isPositiveFinite(c.MeanService) {
		return fmt.Errorf("%w: mean_service must be a positive number, got %v", ErrInvalidConfig, c.MeanService)
	}
	if c.NumDelaysRequired <= 0 {
		return fmt.Errorf("%w: num_delays_required must be positive, got %d", ErrInvalidConfig, c.NumDelaysRequired)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("%w: queue_capacity must be positive, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	if c.ArrivalStream < 1 || c.ArrivalStream > NumStreams {
		return fmt.Errorf("%w: arrival_stream must be in [1, %d], got %d", ErrInvalidConfig, NumStreams, c.ArrivalStream)
	}
	if c.ServiceStream < 1 || c.ServiceStream > NumStreams {
		return fmt.Errorf("%w: service_stream must be in [1, %d], got %d", ErrInvalidConfig, NumStreams, c.ServiceStream)
	}
	if c.ArrivalStream == c.ServiceStream {
		logrus.Warnf("arrival and service share stream %d; the two processes will be correlated", c.ArrivalStream)
	}
	return nil
}

// LoadConfigFile reads a YAML run configuration. Fields missing from the
// file keep their DefaultSimConfig values; unknown fields are rejected.
func LoadConfigFile(path string) (SimConfig, error) {
	cfg := DefaultSimConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading config: %v", ErrInvalidConfig, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
