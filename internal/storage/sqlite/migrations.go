package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Money columns are TEXT holding decimal strings so amounts round-trip
// exactly. Tenants must be created before every table that references them.
const schema = `
CREATE TABLE IF NOT EXISTS tenants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    default_currency TEXT NOT NULL,
    default_food_markup TEXT NOT NULL,
    staff_hourly_rate TEXT,
    staff_tip_per_waiter TEXT,
    real_dishes_price_per_person TEXT,
    real_dishes_flat_fee TEXT,
    default_payment_terms TEXT NOT NULL DEFAULT '',
    estimate_number_counter INTEGER NOT NULL DEFAULT 1000,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS owners (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS menu_categories (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    UNIQUE (tenant_id, name),
    FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS menu_items (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    category_id TEXT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    cost_per_serving TEXT NOT NULL,
    markup TEXT NOT NULL,
    default_servings_per_person TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE,
    FOREIGN KEY (category_id) REFERENCES menu_categories(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS extra_items (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    charge_type TEXT NOT NULL,
    cost TEXT NOT NULL,
    price TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    active INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS menu_templates (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    item_ids TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL,
    UNIQUE (tenant_id, name),
    FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS estimates (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    number INTEGER,
    customer_name TEXT NOT NULL,
    customer_phone TEXT NOT NULL DEFAULT '',
    customer_email TEXT NOT NULL DEFAULT '',
    event_type TEXT NOT NULL DEFAULT '',
    event_date TEXT NOT NULL,
    event_location TEXT NOT NULL DEFAULT '',
    guest_count INTEGER NOT NULL DEFAULT 0,
    guest_count_kids INTEGER NOT NULL DEFAULT 0,
    currency TEXT NOT NULL,
    exchange_rate TEXT NOT NULL,
    meal_plan TEXT NOT NULL DEFAULT '[]',
    a_la_carte INTEGER NOT NULL DEFAULT 0,
    wants_real_dishes INTEGER NOT NULL DEFAULT 0,
    real_dishes_price_per_person TEXT,
    real_dishes_flat_fee TEXT,
    staff_hours TEXT NOT NULL,
    extra_waiters INTEGER NOT NULL DEFAULT 0,
    staff_hourly_rate TEXT,
    staff_tip_per_waiter TEXT,
    deposit_percentage TEXT NOT NULL,
    manual_meal_totals TEXT NOT NULL DEFAULT '{}',
    meal_guests TEXT NOT NULL DEFAULT '{}',
    notes_internal TEXT NOT NULL DEFAULT '',
    notes_for_customer TEXT NOT NULL DEFAULT '',
    payment_terms TEXT NOT NULL DEFAULT '',
    is_invoice INTEGER NOT NULL DEFAULT 0,
    food_price_per_person TEXT NOT NULL DEFAULT '0',
    extras_total TEXT NOT NULL DEFAULT '0',
    staff_total TEXT NOT NULL DEFAULT '0',
    dishes_total TEXT NOT NULL DEFAULT '0',
    grand_total TEXT NOT NULL DEFAULT '0',
    deposit_amount TEXT NOT NULL DEFAULT '0',
    balance_due TEXT NOT NULL DEFAULT '0',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (tenant_id, number),
    FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS estimate_food_choices (
    id TEXT PRIMARY KEY,
    estimate_id TEXT NOT NULL,
    menu_item_id TEXT NOT NULL,
    meal_name TEXT NOT NULL DEFAULT '',
    included INTEGER NOT NULL DEFAULT 1,
    servings_per_person TEXT,
    notes TEXT NOT NULL DEFAULT '',
    UNIQUE (estimate_id, menu_item_id, meal_name),
    FOREIGN KEY (estimate_id) REFERENCES estimates(id) ON DELETE CASCADE,
    FOREIGN KEY (menu_item_id) REFERENCES menu_items(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS estimate_extra_lines (
    id TEXT PRIMARY KEY,
    estimate_id TEXT NOT NULL,
    extra_item_id TEXT NOT NULL,
    quantity TEXT NOT NULL,
    override_price TEXT,
    notes TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (estimate_id) REFERENCES estimates(id) ON DELETE CASCADE,
    FOREIGN KEY (extra_item_id) REFERENCES extra_items(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_owners_tenant_id ON owners(tenant_id);
CREATE INDEX IF NOT EXISTS idx_menu_items_tenant_id ON menu_items(tenant_id);
CREATE INDEX IF NOT EXISTS idx_extra_items_tenant_id ON extra_items(tenant_id);
CREATE INDEX IF NOT EXISTS idx_estimates_tenant_id ON estimates(tenant_id);
CREATE INDEX IF NOT EXISTS idx_food_choices_estimate_id ON estimate_food_choices(estimate_id);
CREATE INDEX IF NOT EXISTS idx_extra_lines_estimate_id ON estimate_extra_lines(estimate_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
