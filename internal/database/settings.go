package database

import "context"

const getSetting = `
SELECT key, value, updated_at
FROM settings
WHERE key = $1
`

func (q *Queries) GetSetting(ctx context.Context, key string) (Setting, error) {
	var s Setting
	err := q.db.QueryRow(ctx, getSetting, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}

const upsertSetting = `
INSERT INTO settings (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
RETURNING key, value, updated_at
`

type UpsertSettingParams struct {
	Key   string
	Value string
}

func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (Setting, error) {
	var s Setting
	err := q.db.QueryRow(ctx, upsertSetting, arg.Key, arg.Value).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}

const getTheme = `
SELECT variant, primary_color, appearance, radius, updated_at
FROM theme
WHERE id = 1
`

func (q *Queries) GetTheme(ctx context.Context) (Theme, error) {
	var t Theme
	err := q.db.QueryRow(ctx, getTheme).Scan(&t.Variant, &t.PrimaryColor, &t.Appearance, &t.Radius, &t.UpdatedAt)
	return t, err
}

const updateTheme = `
UPDATE theme
SET variant = $1, primary_color = $2, appearance = $3, radius = $4, updated_at = now()
WHERE id = 1
RETURNING variant, primary_color, appearance, radius, updated_at
`

type UpdateThemeParams struct {
	Variant      string
	PrimaryColor string
	Appearance   string
	Radius       string
}

func (q *Queries) UpdateTheme(ctx context.Context, arg UpdateThemeParams) (Theme, error) {
	var t Theme
	err := q.db.QueryRow(ctx, updateTheme, arg.Variant, arg.PrimaryColor, arg.Appearance, arg.Radius).
		Scan(&t.Variant, &t.PrimaryColor, &t.Appearance, &t.Radius, &t.UpdatedAt)
	return t, err
}
