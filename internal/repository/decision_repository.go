package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/domain/repository"
	pkgkafka "SignalPulse/pkg/kafka"
)

// ClickHouseJournal implements DecisionJournal on ClickHouse. The table
// is append-only; outcome scoring reads it from another system.
type ClickHouseJournal struct {
	db    *sql.DB
	table string
}

// NewClickHouseJournal creates the ClickHouse decision journal.
func NewClickHouseJournal(db *sql.DB, table string) repository.DecisionJournal {
	if table == "" {
		table = "signal_decisions"
	}
	return &ClickHouseJournal{db: db, table: table}
}

func (j *ClickHouseJournal) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ts DateTime64(3),
		symbol LowCardinality(String),
		direction LowCardinality(String),
		probability Float64,
		total_score Float64,
		strength_percent Float64,
		confidence LowCardinality(String),
		changed UInt8,
		reason String,
		warnings String
	) ENGINE = MergeTree() ORDER BY (symbol, ts)`, j.table)
	if _, err := j.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init journal: %w", err)
	}
	return nil
}

func (j *ClickHouseJournal) Append(ctx context.Context, d *models.SignalDecision) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, direction, probability, total_score, strength_percent, confidence, changed, reason, warnings) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", j.table)
	changed := uint8(0)
	if d.Changed {
		changed = 1
	}
	_, err := j.db.ExecContext(ctx, q,
		d.GeneratedAt,
		d.Symbol,
		string(d.Direction),
		d.Probability,
		d.TotalScore,
		d.StrengthPercent,
		d.ConfidenceLabel,
		changed,
		d.Reason,
		strings.Join(d.Warnings, "; "),
	)
	return err
}

func (j *ClickHouseJournal) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.SignalDecision, error) {
	q := fmt.Sprintf("SELECT ts, symbol, direction, probability, total_score, strength_percent, confidence, changed, reason, warnings FROM %s WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", j.table)
	rows, err := j.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SignalDecision
	for rows.Next() {
		var d models.SignalDecision
		var direction, warnings string
		var changed uint8
		if err := rows.Scan(&d.GeneratedAt, &d.Symbol, &direction, &d.Probability,
			&d.TotalScore, &d.StrengthPercent, &d.ConfidenceLabel, &changed, &d.Reason, &warnings); err != nil {
			return nil, err
		}
		d.Direction = models.Direction(direction)
		d.Changed = changed == 1
		if warnings != "" {
			d.Warnings = strings.Split(warnings, "; ")
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (j *ClickHouseJournal) Health(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

func (j *ClickHouseJournal) Close() error {
	return nil // connection pool managed by pkg
}

// KafkaPublisher implements Publisher for Kafka decision egress.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates the Kafka decision publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, d *models.SignalDecision) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	return p.producer.Publish(ctx, p.topic, []byte(d.Symbol), b)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
