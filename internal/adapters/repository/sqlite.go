package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/arena/internal/domain/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type arenaRow struct {
	Key        string `gorm:"primaryKey"`
	Position   int    `gorm:"index"`
	Name       string
	NextItemID int
}

func (arenaRow) TableName() string { return "arenas" }

type itemRow struct {
	ArenaKey   string `gorm:"primaryKey"`
	ID         string `gorm:"primaryKey"`
	Position   int
	Name       string
	Cost       *float64
	Elo        float64
	Glicko     float64
	RD         float64 `gorm:"column:rd"`
	Volatility float64
}

func (itemRow) TableName() string { return "items" }

type outcomeRow struct {
	ArenaKey string `gorm:"primaryKey"`
	ID       string `gorm:"primaryKey"`
	Position int
	At       time.Time
	Item1ID  string `gorm:"column:item1_id"`
	Item2ID  string `gorm:"column:item2_id"`
	WinnerID string
}

func (outcomeRow) TableName() string { return "outcomes" }

const insertBatchSize = 200

// SQLiteStore keeps the collection in relational tables through gorm.
// Position columns preserve arena, item and outcome order.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates it.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&arenaRow{}, &itemRow{}, &outcomeRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads all tables and rebuilds the collection.
func (s *SQLiteStore) Load(ctx context.Context) (model.Collection, error) {
	db := s.db.WithContext(ctx)

	var arenas []arenaRow
	if err := db.Order("position").Find(&arenas).Error; err != nil {
		return model.Collection{}, fmt.Errorf("%w: arenas: %w", ErrLoad, err)
	}
	var items []itemRow
	if err := db.Order("arena_key, position").Find(&items).Error; err != nil {
		return model.Collection{}, fmt.Errorf("%w: items: %w", ErrLoad, err)
	}
	var outcomes []outcomeRow
	if err := db.Order("arena_key, position").Find(&outcomes).Error; err != nil {
		return model.Collection{}, fmt.Errorf("%w: outcomes: %w", ErrLoad, err)
	}

	c := model.Collection{Arenas: make([]model.Arena, len(arenas))}
	byKey := make(map[string]*model.Arena, len(arenas))
	for i, r := range arenas {
		c.Arenas[i] = model.Arena{
			Key:        r.Key,
			Name:       r.Name,
			NextItemID: r.NextItemID,
			Items:      []model.Item{},
			Outcomes:   []model.Outcome{},
		}
		byKey[r.Key] = &c.Arenas[i]
	}
	for _, r := range items {
		a, ok := byKey[r.ArenaKey]
		if !ok {
			continue
		}
		a.Items = append(a.Items, model.Item{
			ID:     r.ID,
			Name:   r.Name,
			Cost:   model.CostFromPtr(r.Cost),
			Rating: model.Rating{Elo: r.Elo, Glicko: r.Glicko, RD: r.RD, Volatility: r.Volatility},
		})
	}
	for _, r := range outcomes {
		a, ok := byKey[r.ArenaKey]
		if !ok {
			continue
		}
		a.Outcomes = append(a.Outcomes, model.Outcome{
			ID:     r.ID,
			At:     r.At.UTC(),
			Item1:  r.Item1ID,
			Item2:  r.Item2ID,
			Winner: r.WinnerID,
		})
	}
	return c, nil
}

// Save replaces every table's contents in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, c model.Collection) error {
	var (
		arenas   []arenaRow
		items    []itemRow
		outcomes []outcomeRow
	)
	for ai, a := range c.Arenas {
		arenas = append(arenas, arenaRow{Key: a.Key, Position: ai, Name: a.Name, NextItemID: a.NextItemID})
		for i, it := range a.Items {
			items = append(items, itemRow{
				ArenaKey:   a.Key,
				ID:         it.ID,
				Position:   i,
				Name:       it.Name,
				Cost:       it.Cost.Ptr(),
				Elo:        it.Elo,
				Glicko:     it.Glicko,
				RD:         it.RD,
				Volatility: it.Volatility,
			})
		}
		for i, o := range a.Outcomes {
			outcomes = append(outcomes, outcomeRow{
				ArenaKey: a.Key,
				ID:       o.ID,
				Position: i,
				At:       o.At,
				Item1ID:  o.Item1,
				Item2ID:  o.Item2,
				WinnerID: o.Winner,
			})
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&outcomeRow{}, &itemRow{}, &arenaRow{}} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		if len(arenas) > 0 {
			if err := tx.CreateInBatches(arenas, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(items) > 0 {
			if err := tx.CreateInBatches(items, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(outcomes) > 0 {
			if err := tx.CreateInBatches(outcomes, insertBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
