package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"shop-service/database"
	"shop-service/models"
)

// OrderStore is the order aggregate persistence surface the service
// orchestrates. Implemented by repositories.OrderRepository.
type OrderStore interface {
	Get(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.Order, error)
	GetWithItems(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, q database.Queryer, limit, offset int, withItems bool) ([]models.Order, error)
	GetMany(ctx context.Context, q database.Queryer, ids []uuid.UUID, withItems bool) ([]models.Order, error)
	Create(ctx context.Context, q database.Queryer, in models.OrderCreateRequest) (*models.Order, error)
	CreateWithItems(ctx context.Context, q database.Queryer, in models.OrderCreateWithProductsRequest, products map[uuid.UUID]models.Product) (*models.Order, error)
	ReconcileItems(ctx context.Context, q database.Queryer, order *models.Order, patch models.OrderPatch, products map[uuid.UUID]models.Product) error
	Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error
}

// ProductFinder resolves product ids to current catalog records. Unknown
// ids are omitted, not errored; the service turns a miss into a
// ValidationError via the store.
type ProductFinder interface {
	GetMany(ctx context.Context, q database.Queryer, ids []uuid.UUID) ([]models.Product, error)
}

type OrderService struct {
	db       database.Queryer
	orders   OrderStore
	products ProductFinder
}

func NewOrderService(db database.Queryer, orders OrderStore, products ProductFinder) *OrderService {
	return &OrderService{db: db, orders: orders, products: products}
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID, withItems bool) (*models.Order, error) {
	if withItems {
		return s.orders.GetWithItems(ctx, s.db, id)
	}
	return s.orders.Get(ctx, s.db, id)
}

func (s *OrderService) ListOrders(ctx context.Context, limit, offset int, withItems bool) ([]models.Order, error) {
	return s.orders.List(ctx, s.db, limit, offset, withItems)
}

func (s *OrderService) GetManyOrders(ctx context.Context, ids []uuid.UUID, withItems bool) ([]models.Order, error) {
	return s.orders.GetMany(ctx, s.db, ids, withItems)
}

func (s *OrderService) CreateOrder(ctx context.Context, in models.OrderCreateRequest) (*models.Order, error) {
	var order *models.Order
	err := database.InTx(ctx, s.db, func(q database.Queryer) error {
		var err error
		order, err = s.orders.Create(ctx, q, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrderWithProducts builds the full aggregate in one transaction:
// one batch catalog lookup for every referenced product id, then the
// order and its associations. Returns the refreshed aggregate.
func (s *OrderService) CreateOrderWithProducts(ctx context.Context, in models.OrderCreateWithProductsRequest) (*models.Order, error) {
	var orderID uuid.UUID
	err := database.InTx(ctx, s.db, func(q database.Queryer) error {
		ids := make([]uuid.UUID, 0, len(in.Products))
		seen := make(map[uuid.UUID]bool, len(in.Products))
		for _, item := range in.Products {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}

		products, err := s.resolveProducts(ctx, q, ids)
		if err != nil {
			return err
		}

		order, err := s.orders.CreateWithItems(ctx, q, in, products)
		if err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s created with %d item(s)", orderID, len(in.Products))
	return s.orders.GetWithItems(ctx, s.db, orderID)
}

// UpdateOrderWithProducts reconciles the aggregate against the patch in
// one transaction. partial=false forces PUT semantics on the scalar
// fields; the item list is patch-style either way.
func (s *OrderService) UpdateOrderWithProducts(ctx context.Context, orderID uuid.UUID, patch models.OrderPatch, partial bool) (*models.Order, error) {
	if !partial {
		patch.SetUserID = true
		patch.SetPromoCode = true
	}

	err := database.InTx(ctx, s.db, func(q database.Queryer) error {
		order, err := s.orders.GetWithItems(ctx, q, orderID)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(patch.Items))
		seen := make(map[uuid.UUID]bool, len(patch.Items))
		for _, item := range patch.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}

		products, err := s.resolveProducts(ctx, q, ids)
		if err != nil {
			return err
		}

		return s.orders.ReconcileItems(ctx, q, order, patch, products)
	})
	if err != nil {
		return nil, err
	}

	return s.orders.GetWithItems(ctx, s.db, orderID)
}

func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, patch models.OrderPatch, partial bool) (*models.Order, error) {
	if !partial {
		patch.SetUserID = true
		patch.SetPromoCode = true
	}
	patch.Items = nil

	err := database.InTx(ctx, s.db, func(q database.Queryer) error {
		order, err := s.orders.Get(ctx, q, orderID)
		if err != nil {
			return err
		}
		return s.orders.ReconcileItems(ctx, q, order, patch, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, s.db, orderID)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return database.InTx(ctx, s.db, func(q database.Queryer) error {
		return s.orders.Delete(ctx, q, id)
	})
}

// resolveProducts maps ids to catalog records. Ids the catalog does not
// know are simply absent from the map.
func (s *OrderService) resolveProducts(ctx context.Context, q database.Queryer, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}
	found, err := s.products.GetMany(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	return products, nil
}
