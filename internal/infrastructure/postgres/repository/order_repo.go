package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel, err := mappers.ToGORMOrder(order)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.DB.WithContext(ctx).First(&orderModel, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel)
}

func (r *DefaultOrderRepository) GetOrderByUTR(ctx context.Context, utr, excludeOrderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	query := r.DB.WithContext(ctx).Where("utr = ?", utr)
	if excludeOrderID != "" {
		query = query.Where("id <> ?", excludeOrderID)
	}
	if err := query.First(&orderModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel)
}

// UpdateOrderConditional applies mutate inside a transaction guarded by
// WHERE status = expectedStatus. Under read committed a concurrent
// writer that commits first flips the status, the guarded UPDATE then
// matches zero rows and the loser gets ErrStaleState instead of
// silently overwriting.
func (r *DefaultOrderRepository) UpdateOrderConditional(
	ctx context.Context,
	orderID string,
	expectedStatus domain.OrderStatus,
	mutate func(*domain.Order) error,
) (*domain.Order, error) {
	var updated *domain.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderModel models.OrderModel
		if err := tx.First(&orderModel, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}

		if orderModel.Status != expectedStatus {
			return domain.ErrStaleState
		}

		order, err := mappers.ToDomainOrder(&orderModel)
		if err != nil {
			return err
		}
		if err := mutate(order); err != nil {
			return err
		}

		order.UpdatedAt = time.Now().UTC()
		nextModel, err := mappers.ToGORMOrder(order)
		if err != nil {
			return err
		}

		// Only mutable columns are written: id, amount, merchant_name,
		// pay_address, created_by, created_at and expires_at are frozen
		// at insert.
		res := tx.Model(&models.OrderModel{}).
			Where("id = ? AND status = ?", orderID, expectedStatus).
			Updates(map[string]any{
				"status":     nextModel.Status,
				"utr":        nextModel.UTR,
				"metadata":   nextModel.Metadata,
				"updated_at": nextModel.UpdatedAt,
			})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateUTR
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrStaleState
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *DefaultOrderRepository) FindPendingExpiredBefore(ctx context.Context, cutoff time.Time, limit int32) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	query := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Where("expires_at < ?", cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(int(limit))
	}
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}

	return mappers.ToDomainOrders(orderModels)
}

func (r *DefaultOrderRepository) GetOrdersByCreator(
	ctx context.Context,
	creatorID string,
	filters domain.OrderFilters,
	page, limit int32,
	sortBy, sortOrder string,
) ([]*domain.Order, int64, error) {
	baseQuery := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("created_by = ?", creatorID)

	return r.listOrders(baseQuery, filters, page, limit, sortBy, sortOrder)
}

func (r *DefaultOrderRepository) GetAllOrders(
	ctx context.Context,
	filters domain.OrderFilters,
	page, limit int32,
	sortBy, sortOrder string,
) ([]*domain.Order, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&models.OrderModel{})

	return r.listOrders(baseQuery, filters, page, limit, sortBy, sortOrder)
}

func (r *DefaultOrderRepository) listOrders(
	baseQuery *gorm.DB,
	filters domain.OrderFilters,
	page, limit int32,
	sortBy, sortOrder string,
) ([]*domain.Order, int64, error) {
	var orderModels []models.OrderModel
	var total int64

	baseQuery = applyOrderFilters(baseQuery, filters)

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	safeSortOrder := "DESC"
	if strings.ToUpper(sortOrder) == "ASC" {
		safeSortOrder = "ASC"
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Order(fmt.Sprintf("%s %s", MapSortField(sortBy), safeSortOrder)).
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&orderModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}

	orders, err := mappers.ToDomainOrders(orderModels)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func applyOrderFilters(query *gorm.DB, filters domain.OrderFilters) *gorm.DB {
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN (?)", filters.Statuses)
	}
	if filters.MinAmount > 0 {
		query = query.Where("amount >= ?", filters.MinAmount)
	}
	if filters.MaxAmount > 0 {
		query = query.Where("amount <= ?", filters.MaxAmount)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}
	if filters.HasUTR != nil {
		if *filters.HasUTR {
			query = query.Where("utr IS NOT NULL")
		} else {
			query = query.Where("utr IS NULL")
		}
	}
	return query
}

// MapSortField whitelists sortable columns.
func MapSortField(input string) string {
	switch input {
	case "amount":
		return "amount"
	case "expires_at":
		return "expires_at"
	case "updated_at":
		return "updated_at"
	case "created_at":
		return "created_at"
	default:
		return "created_at"
	}
}
