package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/baancha/pos/internal/database"
	"github.com/baancha/pos/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const maxOrderNumberRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems       = errors.New("items are required")
	ErrInvalidQuantity  = errors.New("quantity must be > 0")
	ErrInvalidProductID = errors.New("invalid product_id")
	ErrInvalidOptionID  = errors.New("invalid option_id")
	ErrProductNotFound  = errors.New("product not found")
	ErrOptionNotFound   = errors.New("customization option not found")
	ErrDuplicateChoice  = errors.New("only one option allowed for this type")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context) (int32, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	GetOption(ctx context.Context, id uuid.UUID) (database.CustomizationOption, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), letting the
// service bind store instances to transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	CreatedBy uuid.UUID
	Notes     string
	Items     []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single cart line being submitted. OptionIDs
// reference customization options; Extra carries store-specific key-values
// that are snapshotted verbatim and never priced.
type CreateOrderItemRequest struct {
	ProductID string
	Quantity  int32
	OptionIDs []string
	Notes     string
	Extra     map[string]string
}

// CreateOrderResult is the full created order with items.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// Customizations is the snapshot stored on each order line. It mirrors the
// cart's typed customization set so later catalog changes never alter
// historical orders.
type Customizations struct {
	Temperature string            `json:"temperature,omitempty"`
	SugarLevel  string            `json:"sugar_level,omitempty"`
	MilkType    string            `json:"milk_type,omitempty"`
	Toppings    []string          `json:"toppings,omitempty"`
	Extras      []string          `json:"extras,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// processedItem holds a prepared order item insert.
type processedItem struct {
	params database.CreateOrderItemParams
}

// CreateOrder validates, snapshots prices, and creates an order atomically.
// Retries up to maxOrderNumberRetries times on order_number unique
// constraint violations (concurrent transactions can read the same MAX).
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, req)
		if err == nil {
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNumberConflict checks for a unique constraint violation on the
// order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
	}
	return false
}

func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	nextNum, err := store.GetNextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	orderNumber := fmt.Sprintf("BCH-%03d", nextNum)

	subtotal := decimal.Zero
	var items []processedItem

	for i, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidProductID)
		}

		product, err := store.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("items[%d]: %w", i, ErrProductNotFound)
			}
			return nil, fmt.Errorf("items[%d]: get product: %w", i, err)
		}

		unitPrice := numericToDecimal(product.Price)
		snapshot := Customizations{Notes: item.Notes, Extra: item.Extra}

		for j, optionID := range item.OptionIDs {
			oid, err := uuid.Parse(optionID)
			if err != nil {
				return nil, fmt.Errorf("items[%d].options[%d]: %w", i, j, ErrInvalidOptionID)
			}
			option, err := store.GetOption(ctx, oid)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("items[%d].options[%d]: %w", i, j, ErrOptionNotFound)
				}
				return nil, fmt.Errorf("items[%d].options[%d]: get option: %w", i, j, err)
			}

			if err := applyOption(&snapshot, option); err != nil {
				return nil, fmt.Errorf("items[%d].options[%d]: %w", i, j, err)
			}
			unitPrice = unitPrice.Add(numericToDecimal(option.PriceDelta))
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt32(item.Quantity))
		subtotal = subtotal.Add(lineTotal)

		customizations, err := json.Marshal(snapshot)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: marshal customizations: %w", i, err)
		}

		items = append(items, processedItem{
			params: database.CreateOrderItemParams{
				ProductID:      productID,
				ProductName:    product.Name,
				Quantity:       item.Quantity,
				UnitPrice:      decimalToNumeric(unitPrice),
				Customizations: customizations,
				LineTotal:      decimalToNumeric(lineTotal),
			},
		})
	}

	notes := pgtype.Text{}
	if req.Notes != "" {
		notes = pgtype.Text{String: req.Notes, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderNumber: orderNumber,
		Notes:       notes,
		Subtotal:    decimalToNumeric(subtotal),
		TotalAmount: decimalToNumeric(subtotal),
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var created []database.OrderItem
	for _, pi := range items {
		pi.params.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		created = append(created, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: created}, nil
}

// applyOption folds a chosen option into the snapshot. The single-valued
// types (temperature, sugar, milk) reject a second choice; toppings and
// extras accumulate.
func applyOption(c *Customizations, option database.CustomizationOption) error {
	switch option.OptionType {
	case enum.OptionTypeTemperature:
		if c.Temperature != "" {
			return fmt.Errorf("%w: temperature", ErrDuplicateChoice)
		}
		c.Temperature = option.Name
	case enum.OptionTypeSugarLevel:
		if c.SugarLevel != "" {
			return fmt.Errorf("%w: sugar_level", ErrDuplicateChoice)
		}
		c.SugarLevel = option.Name
	case enum.OptionTypeMilkType:
		if c.MilkType != "" {
			return fmt.Errorf("%w: milk_type", ErrDuplicateChoice)
		}
		c.MilkType = option.Name
	case enum.OptionTypeTopping:
		c.Toppings = append(c.Toppings, option.Name)
	case enum.OptionTypeExtra:
		c.Extras = append(c.Extras, option.Name)
	default:
		return fmt.Errorf("unknown option type %q", option.OptionType)
	}
	return nil
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
