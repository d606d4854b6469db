package mappers

import (
	"github.com/jcmexdev/ecommerce-aggregates/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
)

func PaymentToDTO(p domain.Payment) contracts.Payment {
	return contracts.Payment{
		PaymentID:     p.ID,
		IsPayed:       p.IsPayed,
		PaymentStatus: string(p.PaymentStatus),
		OrderID:       p.OrderID,
	}
}

func PaymentFromDTO(d contracts.Payment) domain.Payment {
	return domain.Payment{
		ID:            d.PaymentID,
		IsPayed:       d.IsPayed,
		PaymentStatus: domain.Status(d.PaymentStatus),
		OrderID:       d.OrderID,
	}
}
