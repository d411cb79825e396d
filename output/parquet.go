package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/inference-sim/queue-sim/sim"
)

// customerRow is the Parquet schema of the per-customer table.
type customerRow struct {
	ID           int64   `parquet:"name=id, type=INT64"`
	ArrivalTime  float64 `parquet:"name=arrival_time, type=DOUBLE"`
	InterArrival float64 `parquet:"name=inter_arrival, type=DOUBLE"`
	Delay        float64 `parquet:"name=delay, type=DOUBLE"`
}

// ParquetSink writes the per-customer table as a single Parquet file.
// A sink accepts one report; Close removes the file if none was completed.
type ParquetSink struct {
	fw       source.ParquetFile
	path     string
	written  bool
	complete bool
}

// NewParquetSink creates (or truncates) path.
func NewParquetSink(path string) (*ParquetSink, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return &ParquetSink{fw: fw, path: path}, nil
}

func (p *ParquetSink) Write(_ context.Context, r *sim.Report) error {
	if p.written {
		return errors.New("parquet sink already holds a report")
	}
	p.written = true
	if len(r.Customers) == 0 {
		logrus.Warn("customer Parquet table requested but the report carries no customer records")
	}

	pw, err := writer.NewParquetWriter(p.fw, new(customerRow), 4)
	if err != nil {
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, c := range r.Customers {
		row := customerRow{
			ID:           int64(c.ID),
			ArrivalTime:  c.ArrivalTime,
			InterArrival: c.InterArrival,
			Delay:        c.Delay,
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("failed to write customer %d: %w", c.ID, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish Parquet file: %w", err)
	}
	p.complete = true
	return nil
}

func (p *ParquetSink) Close() error {
	err := p.fw.Close()
	if p.complete {
		return err
	}
	if rerr := removeUnwritten(p.path); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
