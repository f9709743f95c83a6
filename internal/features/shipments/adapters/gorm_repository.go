package adapters

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/features/shipments/ports"
)

// Repository is a generic persistence gateway over one GORM model. Every
// operation commits on success; failures surface as ports.ErrPersistence with
// the original cause attached.
type Repository[T any] struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a generic repository for the model T.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{
		db:     db,
		logger: logger.Get(),
	}
}

// Save inserts a new entity.
func (r *Repository[T]) Save(entity *T) error {
	r.logger.Debug("Saving entity", zap.String("model", fmt.Sprintf("%T", entity)))
	if err := r.db.Create(entity).Error; err != nil {
		return wrapPersistence("save entity", err)
	}
	return nil
}

// Update applies all fields of updates to the existing entity row, zero
// values included, so cleared fields (e.g. a reset error message) persist.
func (r *Repository[T]) Update(entity *T, updates *T) error {
	r.logger.Debug("Updating entity", zap.String("model", fmt.Sprintf("%T", entity)))
	if err := r.db.Model(entity).Select("*").Updates(updates).Error; err != nil {
		return wrapPersistence("update entity", err)
	}
	return nil
}

// SaveOrUpdate upserts the entity keyed by the given unique columns.
func (r *Repository[T]) SaveOrUpdate(entity *T, uniqueColumns ...string) error {
	if len(uniqueColumns) == 0 {
		return wrapPersistence("save or update", errors.New("no unique columns given"))
	}

	cols := make([]clause.Column, 0, len(uniqueColumns))
	for _, c := range uniqueColumns {
		cols = append(cols, clause.Column{Name: c})
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   cols,
		UpdateAll: true,
	}).Create(entity).Error
	if err != nil {
		return wrapPersistence("save or update entity", err)
	}
	return nil
}

// Delete removes the entity row.
func (r *Repository[T]) Delete(entity *T) error {
	r.logger.Debug("Deleting entity", zap.String("model", fmt.Sprintf("%T", entity)))
	if err := r.db.Delete(entity).Error; err != nil {
		return wrapPersistence("delete entity", err)
	}
	return nil
}

// GetByID fetches an entity by primary key.
func (r *Repository[T]) GetByID(id any) (*T, error) {
	var entity T
	if err := r.db.First(&entity, primaryCondition(r.db, &entity), id).Error; err != nil {
		return nil, wrapLookup("get by id", err)
	}
	return &entity, nil
}

// GetByFields fetches the first entity matching all given column filters.
func (r *Repository[T]) GetByFields(filters map[string]any) (*T, error) {
	var entity T
	if err := r.db.Where(filters).First(&entity).Error; err != nil {
		return nil, wrapLookup("get by fields", err)
	}
	return &entity, nil
}

// GetLatest fetches the entity with the greatest value in orderField.
func (r *Repository[T]) GetLatest(orderField string) (*T, error) {
	var entity T
	if err := r.db.Order(orderField + " DESC").First(&entity).Error; err != nil {
		return nil, wrapLookup("get latest", err)
	}
	return &entity, nil
}

// primaryCondition builds the primary-key predicate for T. GORM resolves the
// key from the model's schema, so callers pass bare ids to GetByID.
func primaryCondition(db *gorm.DB, model any) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil || len(stmt.Schema.PrimaryFields) == 0 {
		return "id = ?"
	}
	return stmt.Schema.PrimaryFields[0].DBName + " = ?"
}

func wrapPersistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ports.ErrPersistence, err)
}

func wrapLookup(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ports.ErrNotFound)
	}
	return wrapPersistence(op, err)
}
