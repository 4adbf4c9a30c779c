package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

var tracer = otel.Tracer("sweet-repository")

// TracingSweetRepository decorates the GORM repository with spans for
// every data access. It implements domain.SweetRepository.
type TracingSweetRepository struct {
	inner *GormSweetRepository
}

func NewTracingSweetRepository(db *gorm.DB) *TracingSweetRepository {
	return &TracingSweetRepository{inner: NewGormSweetRepository(db)}
}

func (r *TracingSweetRepository) AutoMigrate() error {
	return r.inner.AutoMigrate()
}

func (r *TracingSweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("sweet.name", sweet.Name),
			attribute.String("sweet.category", sweet.Category),
			attribute.Float64("sweet.price", sweet.Price),
			attribute.Int("sweet.quantity", sweet.Quantity),
		),
	)
	defer span.End()

	if err := r.inner.Create(ctx, sweet); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("sweet.id", sweet.ID))
	return nil
}

func (r *TracingSweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.String("sweet.id", id)),
	)
	defer span.End()

	sweet, err := r.inner.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("sweet.quantity", sweet.Quantity))
	return sweet, nil
}

func (r *TracingSweetRepository) FindAll(ctx context.Context) ([]domain.Sweet, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll")
	defer span.End()

	sweets, err := r.inner.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(sweets)))
	return sweets, nil
}

func (r *TracingSweetRepository) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.Sweet, error) {
	ctx, span := tracer.Start(ctx, "repository.Search",
		trace.WithAttributes(
			attribute.String("filter.name", filters.Name),
			attribute.String("filter.category", filters.Category),
		),
	)
	defer span.End()

	sweets, err := r.inner.Search(ctx, filters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(sweets)))
	return sweets, nil
}

func (r *TracingSweetRepository) Update(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Sweet, error) {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(attribute.String("sweet.id", id)),
	)
	defer span.End()

	sweet, err := r.inner.Update(ctx, id, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return sweet, nil
}

func (r *TracingSweetRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.String("sweet.id", id)),
	)
	defer span.End()

	if err := r.inner.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingSweetRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.inner.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return count, nil
}

func (r *TracingSweetRepository) TryDecrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	ctx, span := tracer.Start(ctx, "repository.TryDecrementQuantity",
		trace.WithAttributes(
			attribute.String("sweet.id", id),
			attribute.Int("amount", amount),
		),
	)
	defer span.End()

	sweet, err := r.inner.TryDecrementQuantity(ctx, id, amount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("sweet.quantity", sweet.Quantity))
	return sweet, nil
}

func (r *TracingSweetRepository) IncrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	ctx, span := tracer.Start(ctx, "repository.IncrementQuantity",
		trace.WithAttributes(
			attribute.String("sweet.id", id),
			attribute.Int("amount", amount),
		),
	)
	defer span.End()

	sweet, err := r.inner.IncrementQuantity(ctx, id, amount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("sweet.quantity", sweet.Quantity))
	return sweet, nil
}
