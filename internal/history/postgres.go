package history

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type matchRow struct {
	ID         uint   `gorm:"primaryKey"`
	RoomCode   string `gorm:"size:16;index"`
	Prompt     string `gorm:"type:text"`
	StartedAt  *time.Time
	EndedAt    time.Time `gorm:"index"`
	DurationMs int64
	Tie        bool
	Results    []resultRow `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
}

func (matchRow) TableName() string { return "matches" }

type resultRow struct {
	ID            uint `gorm:"primaryKey"`
	MatchID       uint `gorm:"index"`
	Rank          int
	ParticipantID string `gorm:"size:36"`
	DisplayName   string `gorm:"size:32"`
	WPM           float64
	Progress      int
}

func (resultRow) TableName() string { return "match_results" }

// Postgres archives matches through gorm.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&matchRow{}, &resultRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Save(ctx context.Context, m Match) error {
	row := toRow(m)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert match %s: %w", m.RoomCode, err)
	}
	return nil
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]Match, error) {
	var rows []matchRow
	err := p.db.WithContext(ctx).
		Preload("Results", func(db *gorm.DB) *gorm.DB { return db.Order("rank asc, id asc") }).
		Order("ended_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	matches := make([]Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, fromRow(r))
	}
	return matches, nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(m Match) matchRow {
	row := matchRow{
		RoomCode:   m.RoomCode,
		Prompt:     m.Prompt,
		StartedAt:  m.StartedAt,
		EndedAt:    m.EndedAt,
		DurationMs: m.Duration.Milliseconds(),
		Tie:        m.Tie,
		Results:    make([]resultRow, 0, len(m.Results)),
	}
	for _, r := range m.Results {
		row.Results = append(row.Results, resultRow{
			Rank:          r.Rank,
			ParticipantID: r.ParticipantID,
			DisplayName:   r.DisplayName,
			WPM:           r.WPM,
			Progress:      r.Progress,
		})
	}
	return row
}

func fromRow(row matchRow) Match {
	m := Match{
		RoomCode:  row.RoomCode,
		Prompt:    row.Prompt,
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
		Duration:  time.Duration(row.DurationMs) * time.Millisecond,
		Tie:       row.Tie,
		Results:   make([]Result, 0, len(row.Results)),
	}
	for _, r := range row.Results {
		m.Results = append(m.Results, Result{
			Rank:          r.Rank,
			ParticipantID: r.ParticipantID,
			DisplayName:   r.DisplayName,
			WPM:           r.WPM,
			Progress:      r.Progress,
		})
	}
	return m
}
