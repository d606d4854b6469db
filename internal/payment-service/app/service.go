package app

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/payment-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-aggregates/internal/payment-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/aggregate"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
)

// PaymentService owns payments; reads attach the paid order.
type PaymentService struct {
	*aggregate.Service[int, domain.Payment, contracts.Payment]
}

func NewPaymentService(s storage.PaymentStore, orders refs.Source[contracts.Order]) *PaymentService {
	return &PaymentService{
		Service: aggregate.New(identity.KindPayment, s,
			aggregate.Mapper[domain.Payment, contracts.Payment]{
				ToDTO:   mappers.PaymentToDTO,
				FromDTO: mappers.PaymentFromDTO,
			},
			aggregate.ScalarIdentity(
				func(p contracts.Payment) int { return p.PaymentID },
				func(p *contracts.Payment, id int) { p.PaymentID = id },
			),
			aggregate.WithCompose[int, domain.Payment](func(ctx context.Context, p *contracts.Payment) error {
				order, err := orders.Resolve(ctx, p.OrderID)
				if err != nil {
					return err
				}
				p.Order = order
				return nil
			}),
			aggregate.WithCheck[int, domain.Payment](checkPayment),
		),
	}
}

// Save starts payments without a status as NOT_STARTED.
func (s *PaymentService) Save(ctx context.Context, p contracts.Payment) (contracts.Payment, error) {
	if p.PaymentStatus == "" {
		p.PaymentStatus = string(domain.StatusNotStarted)
	}
	return s.Service.Save(ctx, p)
}

// checkPayment requires the paid order's identity.
func checkPayment(p contracts.Payment) error {
	if !identity.ValidID(p.OrderID) {
		return identity.KindOrder.Invalid(p.OrderID)
	}
	return nil
}

func (s *PaymentService) Register(r grpc.ServiceRegistrar) {
	rpc.Register(r, s, contracts.PaymentService, rpc.CRUDMethods[int, contracts.Payment](s)...)
}
