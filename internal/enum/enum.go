package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusReceived  = "RECEIVED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ── User roles (CHECK constrained in DB) ──

const (
	UserRoleAdmin   = "ADMIN"
	UserRoleCashier = "CASHIER"
	UserRoleKitchen = "KITCHEN"
)

// Customization option types. TEMPERATURE doubles as the size/temperature
// axis (hot/iced/frappe) the menu presents first.
const (
	OptionTypeTemperature = "TEMPERATURE"
	OptionTypeSugarLevel  = "SUGAR_LEVEL"
	OptionTypeMilkType    = "MILK_TYPE"
	OptionTypeTopping     = "TOPPING"
	OptionTypeExtra       = "EXTRA"
)

// ── Configurable labels (no DB constraint) ──

const (
	ThemeAppearanceLight = "light"
	ThemeAppearanceDark  = "dark"
)

// WebSocket event types pushed to connected clients.
const (
	EventThemeUpdated       = "theme.updated"
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)
