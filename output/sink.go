// Package output delivers the end-of-run report to its destinations:
// local files (text, JSON, YAML, CSV, Parquet), S3, Kafka, and Postgres.
//
// Every sink receives the single final report of a run; none persists
// intermediate simulation state.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim"
)

// Sink is a destination for the end-of-run report.
type Sink interface {
	Write(ctx context.Context, r *sim.Report) error
	Close() error
}

// FailureWriter is implemented by sinks that can record a fatal diagnostic
// when a run aborts before producing a report.
type FailureWriter interface {
	WriteFailure(cfg sim.SimConfig, err error) error
}

// Config selects the enabled sinks. Empty fields disable the sink.
type Config struct {
	ReportPath  string      `mapstructure:"report" yaml:"report"`   // text report; stdout when empty
	JSONPath    string      `mapstructure:"json" yaml:"json"`       // JSON report file
	YAMLPath    string      `mapstructure:"yaml" yaml:"yaml"`       // YAML report file
	CSVPath     string      `mapstructure:"csv" yaml:"csv"`         // per-customer CSV table
	ParquetPath string      `mapstructure:"parquet" yaml:"parquet"` // per-customer Parquet table
	S3          S3Config    `mapstructure:"s3" yaml:"s3"`
	Kafka       KafkaConfig `mapstructure:"kafka" yaml:"kafka"`
	PostgresDSN string      `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

// NeedsCustomers reports whether any enabled sink consumes per-customer records.
func (c Config) NeedsCustomers() bool {
	return c.CSVPath != "" || c.ParquetPath != ""
}

// NewSinks builds every sink enabled in cfg. The text report goes to stdout
// when no report path is set. Resources are opened here so that I/O problems
// surface before the simulation starts.
func NewSinks(ctx context.Context, cfg Config, stdout io.Writer) (MultiSink, error) {
	var sinks MultiSink
	fail := func(err error) (MultiSink, error) {
		if closeErr := sinks.Close(); closeErr != nil {
			logrus.Warnf("closing sinks after setup failure: %v", closeErr)
		}
		return nil, err
	}

	if cfg.ReportPath != "" {
		ts, err := NewTextFileSink(cfg.ReportPath)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, ts)
	} else {
		sinks = append(sinks, NewTextSink(stdout))
	}

	if cfg.JSONPath != "" {
		s, err := NewJSONSink(cfg.JSONPath)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.YAMLPath != "" {
		s, err := NewYAMLSink(cfg.YAMLPath)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.CSVPath != "" {
		s, err := NewCSVSink(cfg.CSVPath)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.ParquetPath != "" {
		s, err := NewParquetSink(cfg.ParquetPath)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.S3.Bucket != "" {
		s, err := NewS3Sink(ctx, cfg.S3)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.Kafka.Brokers != "" {
		s, err := NewKafkaSink(cfg.Kafka)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.PostgresDSN != "" {
		s, err := NewPostgresSink(ctx, cfg.PostgresDSN)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	logrus.Debugf("configured %d report sinks", len(sinks))
	return sinks, nil
}

// MultiSink fans a report out to several sinks.
type MultiSink []Sink

// Write delivers r to every sink and joins their errors.
func (m MultiSink) Write(ctx context.Context, r *sim.Report) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

// WriteFailure records err on every sink that supports it.
func (m MultiSink) WriteFailure(cfg sim.SimConfig, err error) error {
	var errs []error
	for _, s := range m {
		if fw, ok := s.(FailureWriter); ok {
			if werr := fw.WriteFailure(cfg, err); werr != nil {
				errs = append(errs, werr)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins their errors.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}
