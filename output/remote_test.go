package output

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queue-sim/sim"
)

// === S3 ===

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink_UploadsJSONReport(t *testing.T) {
	// GIVEN an S3 sink backed by a fake client
	client := &fakeS3{}
	s := NewS3SinkWithClient(client, "sim-results", "mm1/daily")
	r := sampleReport(t)

	// WHEN a report is written
	require.NoError(t, s.Write(context.Background(), r))

	// THEN one JSON object is stored under prefix/<run id>.json
	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "sim-results", aws.ToString(in.Bucket))
	assert.Equal(t, "mm1/daily/run-test.json", aws.ToString(in.Key))
	assert.Equal(t, "application/json", aws.ToString(in.ContentType))

	var got sim.Report
	require.NoError(t, json.Unmarshal(client.bodies[0], &got))
	assert.Equal(t, r.AverageDelay, got.AverageDelay)
	assert.NoError(t, s.Close())
}

func TestS3Sink_ClientError(t *testing.T) {
	s := NewS3SinkWithClient(&fakeS3{err: errors.New("access denied")}, "b", "")
	err := s.Write(context.Background(), sampleReport(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestObjectKey(t *testing.T) {
	r := &sim.Report{RunID: "abc"}
	assert.Equal(t, "abc.json", ObjectKey("", r))
	assert.Equal(t, "p/abc.json", ObjectKey("p/", r))

	r = &sim.Report{Config: sim.SimConfig{Seed: 12}}
	assert.Equal(t, "runs/seed-12.json", ObjectKey("runs", r))
}

// === Kafka ===

func TestKafkaSink_PublishesReport(t *testing.T) {
	// GIVEN a mock producer expecting one message
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got sim.Report
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.RunID != "run-test" {
			return errors.New("unexpected run id " + got.RunID)
		}
		return nil
	})
	s := NewKafkaSinkWithProducer(producer, "")

	// WHEN a report is written
	err := s.Write(context.Background(), sampleReport(t))

	// THEN the message went to the default topic and the mock saw it
	require.NoError(t, err)
	assert.Equal(t, DefaultKafkaTopic, s.topic)
	require.NoError(t, s.Close())
}

func TestKafkaSink_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	s := NewKafkaSinkWithProducer(producer, "reports")

	err := s.Write(context.Background(), sampleReport(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	assert.Contains(t, err.Error(), "reports")
	require.NoError(t, s.Close())
}

// === Postgres ===

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls   []execCall
	failOn  string
	affects int64
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("relation locked")
	}
	if strings.Contains(sql, "INSERT") {
		if f.affects == 0 {
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		}
		return pgconn.NewCommandTag("INSERT 0 2"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestPostgresSink_CreatesTableAndInserts(t *testing.T) {
	// GIVEN a sink over a fake connection
	db := &fakeExecer{}
	s := NewPostgresSinkWithExecer(db)
	r := sampleReport(t)

	// WHEN a report is written
	require.NoError(t, s.Write(context.Background(), r))

	// THEN the table is ensured, then one row is inserted with the summary
	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[0].sql, "CREATE TABLE IF NOT EXISTS simulation_runs")
	insert := db.calls[1]
	assert.Contains(t, insert.sql, "INSERT INTO simulation_runs")
	require.Len(t, insert.args, 11)
	assert.Equal(t, "run-test", insert.args[0])
	assert.Equal(t, r.Config.Seed, insert.args[4])
	assert.Equal(t, r.AverageDelay, insert.args[5])
	assert.Equal(t, r.ErlangC, insert.args[10])
	assert.NoError(t, s.Close())
}

func TestPostgresSink_Errors(t *testing.T) {
	t.Run("create fails", func(t *testing.T) {
		s := NewPostgresSinkWithExecer(&fakeExecer{failOn: "CREATE"})
		err := s.Write(context.Background(), sampleReport(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creating simulation_runs")
	})
	t.Run("insert fails", func(t *testing.T) {
		s := NewPostgresSinkWithExecer(&fakeExecer{failOn: "INSERT"})
		err := s.Write(context.Background(), sampleReport(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inserting run run-test")
	})
	t.Run("unexpected row count", func(t *testing.T) {
		s := NewPostgresSinkWithExecer(&fakeExecer{affects: 2})
		err := s.Write(context.Background(), sampleReport(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 rows affected")
	})
}
