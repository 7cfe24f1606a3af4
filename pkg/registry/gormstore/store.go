// Package gormstore keeps product form schemas in a Postgres table through
// GORM, storing each document in a JSONB column.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goliatone/go-formbuilder/pkg/registry"
)

// ProductForm is the table row for one product's schema.
type ProductForm struct {
	ProductID string         `gorm:"column:product_id;primaryKey"`
	Schema    datatypes.JSON `gorm:"column:schema;type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

// TableName pins the table name.
func (ProductForm) TableName() string {
	return "product_forms"
}

// Store implements registry.Store on a *gorm.DB.
type Store struct {
	db *gorm.DB
}

var _ registry.Store = (*Store)(nil)

// New wraps an open connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres using dsn.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the product_forms table.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&ProductForm{})
}

func (s *Store) Get(ctx context.Context, productID string) (registry.Record, error) {
	var row ProductForm
	if err := s.db.WithContext(ctx).First(&row, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return registry.Record{}, registry.ErrNotFound
		}
		return registry.Record{}, fmt.Errorf("gormstore: get %s: %w", productID, err)
	}
	return registry.Record{
		ProductID: row.ProductID,
		Schema:    []byte(row.Schema),
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Put upserts the record.
func (s *Store) Put(ctx context.Context, record registry.Record) error {
	row := ProductForm{
		ProductID: record.ProductID,
		Schema:    datatypes.JSON(record.Schema),
		UpdatedAt: record.UpdatedAt,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"schema", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("gormstore: put %s: %w", record.ProductID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, productID string) error {
	result := s.db.WithContext(ctx).Delete(&ProductForm{}, "product_id = ?", productID)
	if result.Error != nil {
		return fmt.Errorf("gormstore: delete %s: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return registry.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&ProductForm{}).
		Order("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: list: %w", err)
	}
	return ids, nil
}
