package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Username       string
	FullName       string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
}

type Product struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
	Description pgtype.Text
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CustomizationOption struct {
	ID         uuid.UUID
	Name       string
	OptionType string
	PriceDelta pgtype.Numeric
	SortOrder  int32
	IsActive   bool
}

type Order struct {
	ID          uuid.UUID
	OrderNumber string
	Status      string
	Notes       pgtype.Text
	Subtotal    pgtype.Numeric
	TotalAmount pgtype.Numeric
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	Quantity       int32
	UnitPrice      pgtype.Numeric
	Customizations []byte // jsonb snapshot of the chosen customization set
	LineTotal      pgtype.Numeric
}

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type Theme struct {
	Variant      string
	PrimaryColor string
	Appearance   string
	Radius       string
	UpdatedAt    time.Time
}
