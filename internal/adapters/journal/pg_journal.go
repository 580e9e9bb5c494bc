package journal

import (
	"database/sql"

	"github.com/immunIT/owfmodules.logic.logic-analyzer/internal/ports"
)

// PGJournal records one row per completed capture in a Postgres table so a
// lab can keep an inventory of what was captured, when, and with which
// settings.
type PGJournal struct {
	db        *sql.DB
	tableName string
}

func New(db *sql.DB, table string) *PGJournal {
	return &PGJournal{db: db, tableName: table}
}

func (j *PGJournal) Name() string { return "postgres" }

func (j *PGJournal) Record(rec ports.CaptureRecord) error {
	query := "INSERT INTO " + j.tableName +
		" (started_at, trigger_pin, samples, samplerate, channels, output_path, duration_ms)" +
		" VALUES ($1,$2,$3,$4,$5,$6,$7)"

	_, err := j.db.Exec(query,
		rec.StartedAt,
		rec.TriggerPin,
		rec.Samples,
		rec.SampleRate,
		rec.Channels,
		rec.OutputPath,
		rec.Duration.Milliseconds(),
	)
	return err
}

var _ ports.Journal = (*PGJournal)(nil)
