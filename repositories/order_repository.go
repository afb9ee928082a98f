package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shop-service/database"
	"shop-service/models"
)

// OrderRepository owns orders together with their line items. The
// item-bearing operations expect to run inside a transaction opened by
// the caller; a failure mid-way leaves rollback to that scope.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var userID uuid.NullUUID
	var promoCode sql.NullString
	err := row.Scan(&o.ID, &userID, &promoCode, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		o.UserID = &userID.UUID
	}
	if promoCode.Valid {
		o.PromoCode = &promoCode.String
	}
	return &o, nil
}

func (r *OrderRepository) Get(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.Order, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, promo_code, created_at, updated_at
		FROM orders
		WHERE id = ?
	`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetWithItems loads the order aggregate: the order row plus every line
// item with its product attached.
func (r *OrderRepository) GetWithItems(ctx context.Context, q database.Queryer, id uuid.UUID) (*models.Order, error) {
	o, err := r.Get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, q, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, q database.Queryer, limit, offset int, withItems bool) ([]models.Order, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, promo_code, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withItems {
		refs := make([]*models.Order, len(orders))
		for i := range orders {
			refs[i] = &orders[i]
		}
		if err := r.loadItems(ctx, q, refs); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) GetMany(ctx context.Context, q database.Queryer, ids []uuid.UUID, withItems bool) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, promo_code, created_at, updated_at
		FROM orders
		WHERE id IN (`+placeholders(len(ids))+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withItems {
		refs := make([]*models.Order, len(orders))
		for i := range orders {
			refs[i] = &orders[i]
		}
		if err := r.loadItems(ctx, q, refs); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// loadItems attaches line items (with their products) to each order.
func (r *OrderRepository) loadItems(ctx context.Context, q database.Queryer, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Order, len(orders))
	args := make([]any, len(orders))
	for i, o := range orders {
		byID[o.ID] = o
		args[i] = o.ID
	}

	rows, err := q.QueryContext(ctx, `
		SELECT a.id, a.order_id, a.product_id, a.count, a.unit_price,
		       p.id, p.name, p.price, p.description, p.category_id, p.created_at, p.updated_at
		FROM order_product_associations a
		JOIN products p ON p.id = a.product_id
		WHERE a.order_id IN (`+placeholders(len(orders))+`)
		ORDER BY a.id ASC`,
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var p models.Product
		var categoryID uuid.NullUUID
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Count, &item.UnitPrice,
			&p.ID, &p.Name, &p.Price, &p.Description, &categoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		if categoryID.Valid {
			p.CategoryID = &categoryID.UUID
		}
		item.Product = &p
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *OrderRepository) Create(ctx context.Context, q database.Queryer, in models.OrderCreateRequest) (*models.Order, error) {
	now := time.Now().UTC()
	o := &models.Order{
		ID:        uuid.New(),
		UserID:    in.UserID,
		PromoCode: in.PromoCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, promo_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, o.ID, nullableUUID(o.UserID), o.PromoCode, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return o, nil
}

// CreateWithItems persists a new order and one association per requested
// item. Every item must resolve through the supplied product map; a miss
// fails the whole operation so the enclosing transaction rolls back.
// unit_price snapshots the product's current price.
func (r *OrderRepository) CreateWithItems(ctx context.Context, q database.Queryer, in models.OrderCreateWithProductsRequest, products map[uuid.UUID]models.Product) (*models.Order, error) {
	order, err := r.Create(ctx, q, models.OrderCreateRequest{UserID: in.UserID, PromoCode: in.PromoCode})
	if err != nil {
		return nil, err
	}

	for _, item := range in.Products {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, &models.ValidationError{ProductID: item.ProductID}
		}
		res, err := q.ExecContext(ctx, `
			INSERT INTO order_product_associations (order_id, product_id, count, unit_price)
			VALUES (?, ?, ?, ?)
		`, order.ID, item.ProductID, item.Count, product.Price)
		if err != nil {
			return nil, translateErr(err)
		}
		assocID, _ := res.LastInsertId()
		order.Items = append(order.Items, models.OrderItem{
			ID:        assocID,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Count:     item.Count,
			UnitPrice: product.Price,
		})
	}
	return order, nil
}

// ReconcileItems applies a patch onto an order aggregate whose items are
// already loaded. Scalar fields marked as set are written; each item
// patch either updates the matching association in place (re-snapshotting
// unit_price even when only the count changed) or inserts a new one.
// Associations absent from the patch are deliberately left alone.
func (r *OrderRepository) ReconcileItems(ctx context.Context, q database.Queryer, order *models.Order, patch models.OrderPatch, products map[uuid.UUID]models.Product) error {
	if patch.SetUserID {
		order.UserID = patch.UserID
	}
	if patch.SetPromoCode {
		order.PromoCode = patch.PromoCode
	}
	order.UpdatedAt = time.Now().UTC()

	_, err := q.ExecContext(ctx, `
		UPDATE orders SET user_id = ?, promo_code = ?, updated_at = ? WHERE id = ?
	`, nullableUUID(order.UserID), order.PromoCode, order.UpdatedAt, order.ID)
	if err != nil {
		return translateErr(err)
	}

	for _, ip := range patch.Items {
		product, ok := products[ip.ProductID]
		if !ok {
			return &models.ValidationError{ProductID: ip.ProductID}
		}

		var existing *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ProductID == ip.ProductID {
				existing = &order.Items[i]
				break
			}
		}

		if existing != nil {
			if ip.Count != nil {
				existing.Count = *ip.Count
			}
			existing.UnitPrice = product.Price
			_, err := q.ExecContext(ctx, `
				UPDATE order_product_associations
				SET count = ?, unit_price = ?
				WHERE order_id = ? AND product_id = ?
			`, existing.Count, existing.UnitPrice, order.ID, ip.ProductID)
			if err != nil {
				return translateErr(err)
			}
			continue
		}

		count := 0
		if ip.Count != nil {
			count = *ip.Count
		}
		res, err := q.ExecContext(ctx, `
			INSERT INTO order_product_associations (order_id, product_id, count, unit_price)
			VALUES (?, ?, ?, ?)
		`, order.ID, ip.ProductID, count, product.Price)
		if err != nil {
			return translateErr(err)
		}
		assocID, _ := res.LastInsertId()
		order.Items = append(order.Items, models.OrderItem{
			ID:        assocID,
			OrderID:   order.ID,
			ProductID: ip.ProductID,
			Count:     count,
			UnitPrice: product.Price,
		})
	}
	return nil
}

// Delete removes the order; line items go with it via the cascading
// foreign key.
func (r *OrderRepository) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order: %w", models.ErrNotFound)
	}
	return nil
}
