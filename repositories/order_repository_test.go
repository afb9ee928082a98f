package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"shop-service/database"
	"shop-service/models"
)

// The suite runs against a real MySQL with the schema from
// database/schema.sql applied. Set TEST_DB_DSN to enable it, e.g.
// root:shop@tcp(localhost:3306)/shop_test?parseTime=true
type OrderRepoTestSuite struct {
	suite.Suite
	db       *sql.DB
	orders   *OrderRepository
	products *ProductRepository
	ctx      context.Context
}

func TestOrderRepoSuite(t *testing.T) {
	if os.Getenv("TEST_DB_DSN") == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	suite.Run(t, new(OrderRepoTestSuite))
}

func (s *OrderRepoTestSuite) SetupSuite() {
	db, err := database.Open(os.Getenv("TEST_DB_DSN"))
	require.NoError(s.T(), err)
	s.db = db
	s.orders = NewOrderRepository()
	s.products = NewProductRepository()
	s.ctx = context.Background()
}

func (s *OrderRepoTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM order_product_associations")
	s.db.Exec("DELETE FROM orders")
	s.db.Exec("DELETE FROM products")
}

func (s *OrderRepoTestSuite) TearDownSuite() {
	s.db.Close()
}

func (s *OrderRepoTestSuite) createTestProduct(name string, price int64) models.Product {
	p, err := s.products.Create(s.ctx, s.db, name, price, "test product", nil)
	require.NoError(s.T(), err)
	return *p
}

func (s *OrderRepoTestSuite) productMap(products ...models.Product) map[uuid.UUID]models.Product {
	m := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func (s *OrderRepoTestSuite) TestCreateWithItems() {
	p1 := s.createTestProduct("widget", 100)
	p2 := s.createTestProduct("gadget", 50)

	var orderID uuid.UUID
	err := database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		order, err := s.orders.CreateWithItems(s.ctx, q, models.OrderCreateWithProductsRequest{
			Products: []models.OrderItemInput{
				{ProductID: p1.ID, Count: 2},
				{ProductID: p2.ID, Count: 1},
			},
		}, s.productMap(p1, p2))
		if err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	require.NoError(s.T(), err)

	order, err := s.orders.GetWithItems(s.ctx, s.db, orderID)
	require.NoError(s.T(), err)
	require.Len(s.T(), order.Items, 2)

	byProduct := map[uuid.UUID]models.OrderItem{}
	for _, item := range order.Items {
		byProduct[item.ProductID] = item
	}
	require.Equal(s.T(), 2, byProduct[p1.ID].Count)
	require.Equal(s.T(), int64(100), byProduct[p1.ID].UnitPrice)
	require.Equal(s.T(), 1, byProduct[p2.ID].Count)
	require.Equal(s.T(), int64(50), byProduct[p2.ID].UnitPrice)
}

func (s *OrderRepoTestSuite) TestCreateWithItemsUnknownProductRollsBack() {
	p1 := s.createTestProduct("widget", 100)
	unknown := uuid.New()

	err := database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		_, err := s.orders.CreateWithItems(s.ctx, q, models.OrderCreateWithProductsRequest{
			Products: []models.OrderItemInput{
				{ProductID: p1.ID, Count: 1},
				{ProductID: unknown, Count: 1},
			},
		}, s.productMap(p1))
		return err
	})

	var validationErr *models.ValidationError
	require.ErrorAs(s.T(), err, &validationErr)
	require.Equal(s.T(), unknown, validationErr.ProductID)

	// Nothing survives the rollback, not even the valid item or the
	// order row itself.
	var orderCount, itemCount int
	require.NoError(s.T(), s.db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&orderCount))
	require.NoError(s.T(), s.db.QueryRow("SELECT COUNT(*) FROM order_product_associations").Scan(&itemCount))
	require.Zero(s.T(), orderCount)
	require.Zero(s.T(), itemCount)
}

func (s *OrderRepoTestSuite) TestReconcileUpdatesExistingItemInPlace() {
	p1 := s.createTestProduct("widget", 100)
	order := s.createOrderWithItems(models.OrderItemInput{ProductID: p1.ID, Count: 2})

	// Price changed since the order was created.
	require.NoError(s.T(), s.products.UpdatePartial(s.ctx, s.db, &p1, models.ProductPatch{Price: ptrInt64(120)}, nil, false))

	count := 5
	err := database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		loaded, err := s.orders.GetWithItems(s.ctx, q, order.ID)
		if err != nil {
			return err
		}
		return s.orders.ReconcileItems(s.ctx, q, loaded, models.OrderPatch{
			Items: []models.OrderItemPatch{{ProductID: p1.ID, Count: &count}},
		}, s.productMap(p1))
	})
	require.NoError(s.T(), err)

	updated, err := s.orders.GetWithItems(s.ctx, s.db, order.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), updated.Items, 1, "existing association updated, not duplicated")
	require.Equal(s.T(), 5, updated.Items[0].Count)
	require.Equal(s.T(), int64(120), updated.Items[0].UnitPrice, "unit price re-snapshotted")
}

func (s *OrderRepoTestSuite) TestReconcileRefreshesPriceOnNoOpPatch() {
	p1 := s.createTestProduct("widget", 100)
	order := s.createOrderWithItems(models.OrderItemInput{ProductID: p1.ID, Count: 2})

	require.NoError(s.T(), s.products.UpdatePartial(s.ctx, s.db, &p1, models.ProductPatch{Price: ptrInt64(150)}, nil, false))

	// Patch names the item with its current count: count stays, price
	// refreshes anyway.
	count := 2
	err := database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		loaded, err := s.orders.GetWithItems(s.ctx, q, order.ID)
		if err != nil {
			return err
		}
		return s.orders.ReconcileItems(s.ctx, q, loaded, models.OrderPatch{
			Items: []models.OrderItemPatch{{ProductID: p1.ID, Count: &count}},
		}, s.productMap(p1))
	})
	require.NoError(s.T(), err)

	updated, err := s.orders.GetWithItems(s.ctx, s.db, order.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), updated.Items, 1)
	require.Equal(s.T(), 2, updated.Items[0].Count)
	require.Equal(s.T(), int64(150), updated.Items[0].UnitPrice)
}

func (s *OrderRepoTestSuite) TestReconcileAddsNewItemAndKeepsOthers() {
	p1 := s.createTestProduct("widget", 100)
	p3 := s.createTestProduct("gizmo", 75)
	order := s.createOrderWithItems(models.OrderItemInput{ProductID: p1.ID, Count: 2})

	count := 1
	err := database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		loaded, err := s.orders.GetWithItems(s.ctx, q, order.ID)
		if err != nil {
			return err
		}
		return s.orders.ReconcileItems(s.ctx, q, loaded, models.OrderPatch{
			Items: []models.OrderItemPatch{{ProductID: p3.ID, Count: &count}},
		}, s.productMap(p3))
	})
	require.NoError(s.T(), err)

	updated, err := s.orders.GetWithItems(s.ctx, s.db, order.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), updated.Items, 2, "p1 untouched, p3 appended")

	byProduct := map[uuid.UUID]models.OrderItem{}
	for _, item := range updated.Items {
		byProduct[item.ProductID] = item
	}
	require.Equal(s.T(), 2, byProduct[p1.ID].Count)
	require.Equal(s.T(), int64(100), byProduct[p1.ID].UnitPrice)
	require.Equal(s.T(), 1, byProduct[p3.ID].Count)
	require.Equal(s.T(), int64(75), byProduct[p3.ID].UnitPrice)
}

func (s *OrderRepoTestSuite) TestReconcileUnknownProductRollsBack() {
	p1 := s.createTestProduct("widget", 100)
	order := s.createOrderWithItems(models.OrderItemInput{ProductID: p1.ID, Count: 2})
	unknown := uuid.New()

	promo := "BROKEN"
	err := database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		loaded, err := s.orders.GetWithItems(s.ctx, q, order.ID)
		if err != nil {
			return err
		}
		return s.orders.ReconcileItems(s.ctx, q, loaded, models.OrderPatch{
			SetPromoCode: true,
			PromoCode:    &promo,
			Items:        []models.OrderItemPatch{{ProductID: unknown, Count: nil}},
		}, s.productMap())
	})

	var validationErr *models.ValidationError
	require.ErrorAs(s.T(), err, &validationErr)

	// The scalar update that ran before the bad item must be gone too.
	reloaded, err := s.orders.Get(s.ctx, s.db, order.ID)
	require.NoError(s.T(), err)
	require.Nil(s.T(), reloaded.PromoCode)
}

func (s *OrderRepoTestSuite) TestReconcileScalarPatchOnly() {
	order := s.createOrderWithItems()

	promo := "WINTER24"
	err := database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		loaded, err := s.orders.GetWithItems(s.ctx, q, order.ID)
		if err != nil {
			return err
		}
		return s.orders.ReconcileItems(s.ctx, q, loaded, models.OrderPatch{
			SetPromoCode: true,
			PromoCode:    &promo,
		}, nil)
	})
	require.NoError(s.T(), err)

	reloaded, err := s.orders.Get(s.ctx, s.db, order.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), reloaded.PromoCode)
	require.Equal(s.T(), "WINTER24", *reloaded.PromoCode)
}

func (s *OrderRepoTestSuite) TestDeleteCascadesToItems() {
	p1 := s.createTestProduct("widget", 100)
	order := s.createOrderWithItems(models.OrderItemInput{ProductID: p1.ID, Count: 1})

	require.NoError(s.T(), s.orders.Delete(s.ctx, s.db, order.ID))

	_, err := s.orders.Get(s.ctx, s.db, order.ID)
	require.ErrorIs(s.T(), err, models.ErrNotFound)

	var itemCount int
	require.NoError(s.T(), s.db.QueryRow("SELECT COUNT(*) FROM order_product_associations").Scan(&itemCount))
	require.Zero(s.T(), itemCount)
}

func (s *OrderRepoTestSuite) TestGetMissingOrder() {
	_, err := s.orders.Get(s.ctx, s.db, uuid.New())
	require.True(s.T(), errors.Is(err, models.ErrNotFound))
}

func (s *OrderRepoTestSuite) createOrderWithItems(items ...models.OrderItemInput) *models.Order {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	found, err := s.products.GetMany(s.ctx, s.db, ids)
	require.NoError(s.T(), err)
	products := s.productMap(found...)

	var order *models.Order
	err = database.InTx(s.ctx, s.db, func(q database.Queryer) error {
		var err error
		order, err = s.orders.CreateWithItems(s.ctx, q, models.OrderCreateWithProductsRequest{Products: items}, products)
		return err
	})
	require.NoError(s.T(), err)
	return order
}

func ptrInt64(n int64) *int64 {
	return &n
}
