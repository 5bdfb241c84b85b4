package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) (*domain.Order, error) {
	var metadata map[string]string
	if model.Metadata != "" {
		if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal order %s metadata: %w", model.ID, err)
		}
	}

	return &domain.Order{
		ID:           model.ID,
		Amount:       model.Amount,
		MerchantName: model.MerchantName,
		PayAddress:   model.PayAddress,
		Status:       model.Status,
		UTR:          model.UTR,
		CreatedBy:    model.CreatedBy,
		Metadata:     metadata,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		ExpiresAt:    model.ExpiresAt,
	}, nil
}

func ToGORMOrder(order *domain.Order) (*models.OrderModel, error) {
	metadata := "{}"
	if len(order.Metadata) > 0 {
		raw, err := json.Marshal(order.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal order %s metadata: %w", order.ID, err)
		}
		metadata = string(raw)
	}

	return &models.OrderModel{
		ID:           order.ID,
		Amount:       order.Amount,
		MerchantName: order.MerchantName,
		PayAddress:   order.PayAddress,
		Status:       order.Status,
		UTR:          order.UTR,
		CreatedBy:    order.CreatedBy,
		Metadata:     metadata,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		ExpiresAt:    order.ExpiresAt,
	}, nil
}

func ToDomainOrders(orderModels []models.OrderModel) ([]*domain.Order, error) {
	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		order, err := ToDomainOrder(&orderModels[i])
		if err != nil {
			return nil, err
		}
		orders[i] = order
	}
	return orders, nil
}
