package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queue-sim/sim"
)

// reportFile is an output file that Close removes again unless a report
// was written to it, so an aborted run leaves no empty files behind.
type reportFile struct {
	*os.File
	written bool
}

func createReportFile(path string) (*reportFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &reportFile{File: f}, nil
}

func (f *reportFile) Close() error {
	err := f.File.Close()
	if f.written {
		return err
	}
	if rerr := removeUnwritten(f.Name()); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

func removeUnwritten(path string) error {
	logrus.Debugf("no report written; removing %s", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing unwritten output %s: %w", path, err)
	}
	return nil
}

// JSONSink writes the report as an indented JSON document.
type JSONSink struct {
	f *reportFile
}

// NewJSONSink creates (or truncates) path.
func NewJSONSink(path string) (*JSONSink, error) {
	f, err := createReportFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening JSON report: %w", err)
	}
	return &JSONSink{f: f}, nil
}

func (s *JSONSink) Write(_ context.Context, r *sim.Report) error {
	data, err := marshalReport(r)
	if err != nil {
		return err
	}
	if _, err := s.f.Write(append(data, '\n')); err != nil {
		return err
	}
	s.f.written = true
	return nil
}

func (s *JSONSink) Close() error { return s.f.Close() }

// YAMLSink writes the report as a YAML document.
type YAMLSink struct {
	f *reportFile
}

// NewYAMLSink creates (or truncates) path.
func NewYAMLSink(path string) (*YAMLSink, error) {
	f, err := createReportFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening YAML report: %w", err)
	}
	return &YAMLSink{f: f}, nil
}

func (s *YAMLSink) Write(_ context.Context, r *sim.Report) error {
	enc := yaml.NewEncoder(s.f)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	s.f.written = true
	return nil
}

func (s *YAMLSink) Close() error { return s.f.Close() }

// csvHeader is the column layout of the per-customer table.
var csvHeader = []string{"id", "arrival_time", "inter_arrival", "delay"}

// CSVSink writes the per-customer table. Reports without customer records
// produce a header-only file.
type CSVSink struct {
	f *reportFile
}

// NewCSVSink creates (or truncates) path.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := createReportFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening customer CSV: %w", err)
	}
	return &CSVSink{f: f}, nil
}

func (s *CSVSink) Write(_ context.Context, r *sim.Report) error {
	if len(r.Customers) == 0 {
		logrus.Warn("customer CSV requested but the report carries no customer records")
	}
	w := csv.NewWriter(s.f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range r.Customers {
		row := []string{
			strconv.Itoa(c.ID),
			strconv.FormatFloat(c.ArrivalTime, 'f', -1, 64),
			strconv.FormatFloat(c.InterArrival, 'f', -1, 64),
			strconv.FormatFloat(c.Delay, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	s.f.written = true
	return nil
}

func (s *CSVSink) Close() error { return s.f.Close() }

func marshalReport(r *sim.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON report: %w", err)
	}
	return data, nil
}
