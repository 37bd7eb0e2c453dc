package augstream

/*------------------------------------------------------------------------------
* sink.go : optional ClickHouse persistence sink (ADDED, §6)
*
* Grounded on gnssgo/app/rtkrcv/rtkrcv.go's writeObs2ClickHouse: sqlx.Open
* with the "clickhouse" driver, a pooled connection, a channel-fed insert
* loop batched inside a transaction. augstream generalizes it from a single
* hard-coded DSN/table to a configurable sink writing decoded satellite
* frames and CSSR bit-accounting stats instead of RTKLIB observation
* records.
 */

import (
	"time"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SinkConfig names a ClickHouse endpoint (ADDED §6 -sink flag).
type SinkConfig struct {
	DSN            string `yaml:"dsn"`
	FramesTable    string `yaml:"framesTable"`
	StatsTable     string `yaml:"statsTable"`
	MaxOpenConns   int    `yaml:"maxOpenConns"`
	FlushBatchSize int    `yaml:"flushBatchSize"`
}

// FrameSink batches decoded frames and periodically flushes them to
// ClickHouse in one transaction, following writeObs2ClickHouse's
// begin/prepare/exec/commit shape.
type FrameSink struct {
	db          *sqlx.DB
	framesTable string
	statsTable  string
	batchSize   int
	runID       string
	pending     []sinkRow
}

type sinkRow struct {
	receivedAt time.Time
	sat        string
	prn        int
	tow        int
	cno        float64
}

// OpenFrameSink connects to ClickHouse over the sqlx/clickhouse-go driver
// pair, matching writeObs2ClickHouse's sqlx.Open("clickhouse", dsn) call.
func OpenFrameSink(cfg SinkConfig) (*FrameSink, error) {
	if cfg.DSN == "" {
		return nil, errors.New("sink: empty DSN")
	}
	db, err := sqlx.Open("clickhouse", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "opening clickhouse sink")
	}
	max := cfg.MaxOpenConns
	if max <= 0 {
		max = 50
	}
	db.SetMaxOpenConns(max)
	db.SetMaxIdleConns(max)

	framesTable := cfg.FramesTable
	if framesTable == "" {
		framesTable = "augstream_frames"
	}
	statsTable := cfg.StatsTable
	if statsTable == "" {
		statsTable = "augstream_cssr_stats"
	}
	batch := cfg.FlushBatchSize
	if batch <= 0 {
		batch = 200
	}
	return &FrameSink{
		db: db, framesTable: framesTable, statsTable: statsTable, batchSize: batch,
		runID: uuid.New().String(),
	}, nil
}

// RunID returns the sink's process-lifetime identifier, shared with
// SetRunID's log-line tagging so a sink row and its log context correlate.
func (s *FrameSink) RunID() string { return s.runID }

// WriteFrame queues a decoded frame; it flushes automatically once the
// batch fills.
func (s *FrameSink) WriteFrame(f *SatFrame) error {
	s.pending = append(s.pending, sinkRow{
		receivedAt: time.Unix(0, 0).Add(time.Duration(f.Epoch.TOW) * time.Second),
		sat:        SatLabel(f.Constellation, f.PRN),
		prn:        f.PRN,
		tow:        f.Epoch.TOW,
		cno:        f.CNo,
	})
	if len(s.pending) >= s.batchSize {
		return s.Flush()
	}
	return nil
}

// Flush commits any queued rows inside a single transaction (mirrors
// writeObs2ClickHouse's tx.Begin/tx.Prepare/stmt.Exec/tx.Commit sequence).
func (s *FrameSink) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "sink: begin")
	}
	stmt, err := tx.Prepare("INSERT INTO " + s.framesTable + " (run_id, received_at, sat, prn, tow, cno) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "sink: prepare")
	}
	defer stmt.Close()
	for _, r := range s.pending {
		if _, err := stmt.Exec(s.runID, r.receivedAt, r.sat, r.prn, r.tow, r.cno); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "sink: exec")
		}
	}
	s.pending = s.pending[:0]
	return tx.Commit()
}

// WriteStats persists a CSSR bit-accounting snapshot outside the batched
// frame path since it is emitted far less often (once per mask epoch).
func (s *FrameSink) WriteStats(prn int, dialect Dialect, st *CSSRStats) error {
	_, err := s.db.Exec(
		"INSERT INTO "+s.statsTable+" (run_id, prn, dialect, nsat, nsig, bit_sat, bit_sig, bit_other, bit_null, bit_total) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.runID, prn, dialect.String(), st.NSat, st.NSig, st.BitSat, st.BitSig, st.BitOther, st.BitNull, st.BitTotal,
	)
	return err
}

// Close flushes any remaining rows and releases the connection pool.
func (s *FrameSink) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return s.db.Close()
}
