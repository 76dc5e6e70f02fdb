package sqlite

const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id           TEXT     NOT NULL PRIMARY KEY,
	title        TEXT     NOT NULL,
	description  TEXT     NOT NULL,
	category     TEXT     NOT NULL,
	price        REAL     NOT NULL,
	quantity     INTEGER  NOT NULL DEFAULT 0,
	is_available BOOLEAN  NOT NULL DEFAULT 1,
	images       TEXT     NOT NULL DEFAULT '[]',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_available ON products(is_available);

CREATE TABLE IF NOT EXISTS orders (
	id                 TEXT     NOT NULL PRIMARY KEY,
	customer_name      TEXT     NOT NULL,
	email              TEXT     NOT NULL,
	phone              TEXT     NOT NULL,
	location           TEXT     NOT NULL,
	latitude           REAL,
	longitude          REAL,
	delivery_notes     TEXT,
	subtotal           REAL     NOT NULL,
	delivery_fee       REAL     NOT NULL DEFAULT 0,
	total              REAL     NOT NULL,
	status             TEXT     NOT NULL DEFAULT 'pending',
	payment_verified   BOOLEAN  NOT NULL DEFAULT 0,
	transaction_id     TEXT,
	estimated_delivery DATETIME,
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id   TEXT    NOT NULL REFERENCES orders(id),
	product_id TEXT    NOT NULL,
	title      TEXT    NOT NULL,
	quantity   INTEGER NOT NULL,
	unit_price REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS payments (
	id               TEXT     NOT NULL PRIMARY KEY,
	order_id         TEXT     NOT NULL REFERENCES orders(id),
	amount           REAL     NOT NULL,
	currency         TEXT     NOT NULL,
	transaction_id   TEXT     NOT NULL UNIQUE,
	status           TEXT     NOT NULL DEFAULT 'pending',
	gateway_response TEXT,
	verified_at      DATETIME,
	created_at       DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id);
`
