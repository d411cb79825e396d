package cmd

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/inference-sim/queue-sim/output"
	"github.com/inference-sim/queue-sim/sim"
)

// envPrefix prefixes every environment override, e.g. QUEUESIM_SIM_SEED.
const envPrefix = "QUEUESIM"

// defaultReplications is used by `replicate` when -n is not given.
const defaultReplications = 10

// AppConfig is the fully layered configuration of one CLI invocation.
// Precedence, highest first: explicit flags, the --params file (core values
// only), QUEUESIM_* environment, the --config file, defaults.
type AppConfig struct {
	Sim          sim.SimConfig `mapstructure:"sim" yaml:"sim"`
	Output       output.Config `mapstructure:"output" yaml:"output"`
	Trace        TraceOptions  `mapstructure:"trace" yaml:"trace"`
	Replications int           `mapstructure:"replications" yaml:"replications"`
}

// TraceOptions enables per-event tracing to a JSON file.
type TraceOptions struct {
	Path       string `mapstructure:"path" yaml:"path"`
	MaxRecords int    `mapstructure:"max_records" yaml:"max_records"` // 0 = unlimited
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"mean-interarrival": "sim.mean_interarrival",
	"mean-service":      "sim.mean_service",
	"num-delays":        "sim.num_delays_required",
	"queue-capacity":    "sim.queue_capacity",
	"seed":              "sim.seed",
	"arrival-stream":    "sim.arrival_stream",
	"service-stream":    "sim.service_stream",
	"record-customers":  "sim.record_customers",

	"report":        "output.report",
	"json":          "output.json",
	"yaml":          "output.yaml",
	"csv":           "output.csv",
	"parquet":       "output.parquet",
	"s3-bucket":     "output.s3.bucket",
	"s3-prefix":     "output.s3.prefix",
	"s3-region":     "output.s3.region",
	"kafka-brokers": "output.kafka.brokers",
	"kafka-topic":   "output.kafka.topic",
	"postgres-dsn":  "output.postgres_dsn",

	"trace":             "trace.path",
	"trace-max-records": "trace.max_records",

	"replications": "replications",
}

// addSimFlags registers the model parameters shared by run and replicate.
func addSimFlags(fs *pflag.FlagSet) {
	d := sim.DefaultSimConfig()
	fs.String("params", "", "Legacy parameter file: 'meanInterArrival meanService numDelaysRequired'")
	fs.Float64("mean-interarrival", 0, "Mean interarrival time (minutes)")
	fs.Float64("mean-service", 0, "Mean service time (minutes)")
	fs.Int("num-delays", 0, "Number of customers whose delay ends the run")
	fs.Int("queue-capacity", d.QueueCapacity, "Maximum number of waiting customers")
	fs.Int64("seed", d.Seed, "Simulation key; 0 selects the classic Simlib seed table")
	fs.Int("arrival-stream", d.ArrivalStream, "Generator stream for interarrival times (1-100)")
	fs.Int("service-stream", d.ServiceStream, "Generator stream for service times (1-100)")
}

// addOutputFlags registers the report sinks of `run`.
func addOutputFlags(fs *pflag.FlagSet) {
	fs.Bool("record-customers", false, "Keep per-customer records and print the customer table")
	fs.String("report", "", "Text report file (default stdout)")
	fs.String("json", "", "JSON report file")
	fs.String("yaml", "", "YAML report file")
	fs.String("csv", "", "Per-customer CSV file")
	fs.String("parquet", "", "Per-customer Parquet file")
	fs.String("s3-bucket", "", "Upload the JSON report to this S3 bucket")
	fs.String("s3-prefix", "", "Key prefix inside the S3 bucket")
	fs.String("s3-region", "us-east-1", "AWS region of the S3 bucket")
	fs.String("kafka-brokers", "", "Comma-separated Kafka brokers receiving the JSON report")
	fs.String("kafka-topic", output.DefaultKafkaTopic, "Kafka topic for the JSON report")
	fs.String("postgres-dsn", "", "Postgres DSN; a summary row is inserted into simulation_runs")
	fs.String("trace", "", "Write a per-event trace (JSON) to this file")
	fs.Int("trace-max-records", 0, "Maximum trace records kept (0 = unlimited)")
}

func setDefaults(v *viper.Viper) {
	d := sim.DefaultSimConfig()
	v.SetDefault("sim.mean_interarrival", d.MeanInterArrival)
	v.SetDefault("sim.mean_service", d.MeanService)
	v.SetDefault("sim.num_delays_required", d.NumDelaysRequired)
	v.SetDefault("sim.queue_capacity", d.QueueCapacity)
	v.SetDefault("sim.seed", d.Seed)
	v.SetDefault("sim.arrival_stream", d.ArrivalStream)
	v.SetDefault("sim.service_stream", d.ServiceStream)
	v.SetDefault("sim.record_customers", d.RecordCustomers)
	v.SetDefault("replications", defaultReplications)
}

// loadAppConfig layers defaults, the --config file, the environment, and the
// flags in fs, then applies the --params file. Every failure wraps
// sim.ErrInvalidConfig.
func loadAppConfig(fs *pflag.FlagSet) (AppConfig, error) {
	var app AppConfig
	v := viper.New()
	setDefaults(v)

	if path := flagString(fs, "config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return app, fmt.Errorf("%w: reading config file %s: %v", sim.ErrInvalidConfig, path, err)
		}
		logrus.Debugf("using config file %s", v.ConfigFileUsed())
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return app, fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}

	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		expandEnvHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.UnmarshalExact(&app, hooks); err != nil {
		return app, fmt.Errorf("%w: %v", sim.ErrInvalidConfig, err)
	}

	if path := flagString(fs, "params"); path != "" {
		before := app.Sim
		loaded, err := sim.LoadParamsFile(path, app.Sim)
		if err != nil {
			return app, err
		}
		app.Sim = loaded
		// explicit flags still win over the parameter file
		if fs.Changed("mean-interarrival") {
			app.Sim.MeanInterArrival = before.MeanInterArrival
		}
		if fs.Changed("mean-service") {
			app.Sim.MeanService = before.MeanService
		}
		if fs.Changed("num-delays") {
			app.Sim.NumDelaysRequired = before.NumDelaysRequired
		}
	}
	return app, nil
}

// expandEnvHook expands ${VAR} references in string values, so secrets such
// as DSN passwords can stay out of config files.
func expandEnvHook() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data interface{}) (interface{}, error) {
		if from != reflect.String || to != reflect.String {
			return data, nil
		}
		return os.ExpandEnv(data.(string)), nil
	}
}

func flagString(fs *pflag.FlagSet, name string) string {
	if fs.Lookup(name) == nil {
		return ""
	}
	s, err := fs.GetString(name)
	if err != nil {
		return ""
	}
	return s
}
