package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

type GormSweetRepository struct {
	db *gorm.DB
}

func NewGormSweetRepository(db *gorm.DB) *GormSweetRepository {
	return &GormSweetRepository{db: db}
}

func (r *GormSweetRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Sweet{})
}

func (r *GormSweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	return r.db.WithContext(ctx).Create(sweet).Error
}

func (r *GormSweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	var sweet domain.Sweet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sweet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (r *GormSweetRepository) FindAll(ctx context.Context) ([]domain.Sweet, error) {
	var sweets []domain.Sweet
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sweets).Error
	return sweets, err
}

func (r *GormSweetRepository) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.Sweet, error) {
	q := r.db.WithContext(ctx).Model(&domain.Sweet{})

	if filters.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filters.Name+"%")
	}
	if filters.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", filters.Category)
	}
	if filters.MinPrice != nil {
		q = q.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		q = q.Where("price <= ?", *filters.MaxPrice)
	}

	var sweets []domain.Sweet
	err := q.Order("created_at DESC").Find(&sweets).Error
	return sweets, err
}

func (r *GormSweetRepository) Update(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Sweet, error) {
	// No fields provided is a no-op that still returns the current record.
	if fields.Empty() {
		return r.FindByID(ctx, id)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Category != nil {
		updates["category"] = *fields.Category
	}
	if fields.Price != nil {
		updates["price"] = *fields.Price
	}
	if fields.Quantity != nil {
		updates["quantity"] = *fields.Quantity
	}

	var sweet domain.Sweet
	res := r.db.WithContext(ctx).Model(&sweet).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return &sweet, nil
}

func (r *GormSweetRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Sweet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormSweetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Sweet{}).Count(&count).Error
	return count, err
}

// TryDecrementQuantity is a single conditional UPDATE guarded by
// quantity >= amount; the database serializes conflicting updates, so
// quantity can never go negative even under concurrent purchases.
func (r *GormSweetRepository) TryDecrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var sweet domain.Sweet
	res := r.db.WithContext(ctx).Model(&sweet).
		Clauses(clause.Returning{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// The guard failed: either the row is gone or stock ran out.
		// An existence read decides which; the decrement above remains
		// the sole correctness guarantee.
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientQuantity
	}
	return &sweet, nil
}

// IncrementQuantity adds stock unconditionally; there is no upper bound.
func (r *GormSweetRepository) IncrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var sweet domain.Sweet
	res := r.db.WithContext(ctx).Model(&sweet).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return &sweet, nil
}
