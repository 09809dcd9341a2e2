package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-order-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Commit spans the
// products and orders tables in one database transaction; the decrement is a
// single conditional UPDATE, so the read-then-write on each stock row is
// atomic relative to every other commit touching the same product.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID         uuid.UUID        `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID uuid.UUID        `gorm:"column:customer_id;type:uuid;index"`
	Items      []lineItemRecord `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt  time.Time        `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// lineItemRecord is one committed product line with its price snapshot.
type lineItemRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;index"`
	Quantity  int       `gorm:"column:quantity"`
	Price     float64   `gorm:"column:price"`
}

func (lineItemRecord) TableName() string { return "order_items" }

// stockRow is the slice of the products table the committer touches.
type stockRow struct {
	ID       uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	Quantity int       `gorm:"column:quantity"`
}

func (stockRow) TableName() string { return "products" }

// Commit applies every stock decrement and inserts the order in one
// transaction. Each decrement is guarded by `quantity >= requested`, which
// re-validates sufficiency against the latest committed state; zero rows
// affected means a concurrent commit consumed the stock first and the whole
// unit rolls back.
func (r *Repository) Commit(ctx context.Context, order *domain.Order, deltas []domain.StockDelta) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}

	record := toRecord(order)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
		for i := range record.Items {
			record.Items[i].OrderID = record.ID
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, delta := range deltas {
			result := tx.Model(&stockRow{}).
				Where("id = ? AND quantity >= ?", delta.ProductID, delta.Requested).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", delta.Requested))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return r.explainShortage(tx, delta)
			}
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// explainShortage distinguishes a vanished product from a genuine shortage
// and reports the quantity actually seen.
func (r *Repository) explainShortage(tx *gorm.DB, delta domain.StockDelta) error {
	var row stockRow
	if err := tx.First(&row, "id = ?", delta.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ports.ErrProductNotFound, delta.ProductID)
		}
		return err
	}
	return &domain.InsufficientStockError{
		ProductID: delta.ProductID,
		Requested: delta.Requested,
		Available: row.Quantity,
	}
}

// GetByID fetches an order with its line items.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{ID: order.ID, CustomerID: order.CustomerID}
	record.Items = make([]lineItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		record.Items = append(record.Items, lineItemRecord{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{ID: r.ID, CustomerID: r.CustomerID, CreatedAt: r.CreatedAt}
	order.Items = make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return order
}
