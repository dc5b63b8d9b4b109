package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const optionColumns = `id, name, option_type, price_delta, sort_order, is_active`

func scanOption(row interface{ Scan(dest ...any) error }) (CustomizationOption, error) {
	var o CustomizationOption
	err := row.Scan(&o.ID, &o.Name, &o.OptionType, &o.PriceDelta, &o.SortOrder, &o.IsActive)
	return o, err
}

const listOptions = `
SELECT ` + optionColumns + `
FROM customization_options
WHERE is_active = true
ORDER BY option_type, sort_order, name
`

func (q *Queries) ListOptions(ctx context.Context) ([]CustomizationOption, error) {
	rows, err := q.db.Query(ctx, listOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []CustomizationOption
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

const getOption = `
SELECT ` + optionColumns + `
FROM customization_options
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetOption(ctx context.Context, id uuid.UUID) (CustomizationOption, error) {
	return scanOption(q.db.QueryRow(ctx, getOption, id))
}

const createOption = `
INSERT INTO customization_options (name, option_type, price_delta, sort_order)
VALUES ($1, $2, $3, $4)
RETURNING ` + optionColumns + `
`

type CreateOptionParams struct {
	Name       string
	OptionType string
	PriceDelta pgtype.Numeric
	SortOrder  int32
}

func (q *Queries) CreateOption(ctx context.Context, arg CreateOptionParams) (CustomizationOption, error) {
	row := q.db.QueryRow(ctx, createOption, arg.Name, arg.OptionType, arg.PriceDelta, arg.SortOrder)
	return scanOption(row)
}

const updateOption = `
UPDATE customization_options
SET name = $1, option_type = $2, price_delta = $3, sort_order = $4
WHERE id = $5 AND is_active = true
RETURNING ` + optionColumns + `
`

type UpdateOptionParams struct {
	Name       string
	OptionType string
	PriceDelta pgtype.Numeric
	SortOrder  int32
	ID         uuid.UUID
}

func (q *Queries) UpdateOption(ctx context.Context, arg UpdateOptionParams) (CustomizationOption, error) {
	row := q.db.QueryRow(ctx, updateOption, arg.Name, arg.OptionType, arg.PriceDelta, arg.SortOrder, arg.ID)
	return scanOption(row)
}

const softDeleteOption = `
UPDATE customization_options
SET is_active = false
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteOption(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteOption, id).Scan(&deleted)
	return deleted, err
}
