package mysql

// Schema is the reference DDL for the MySQL store. Production schema changes
// are applied by the migration tooling; this copy backs `kuku schema` and the
// integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id           VARCHAR(36)   NOT NULL PRIMARY KEY,
	title        VARCHAR(255)  NOT NULL,
	description  TEXT          NOT NULL,
	category     VARCHAR(50)   NOT NULL,
	price        DECIMAL(10,2) NOT NULL,
	quantity     INT           NOT NULL DEFAULT 0,
	is_available TINYINT(1)    NOT NULL DEFAULT 1,
	images       TEXT          NOT NULL,
	created_at   DATETIME(3)   NOT NULL,
	updated_at   DATETIME(3)   NOT NULL,
	INDEX idx_products_available (is_available)
);

CREATE TABLE IF NOT EXISTS orders (
	id                 VARCHAR(40)   NOT NULL PRIMARY KEY,
	customer_name      VARCHAR(150)  NOT NULL,
	email              VARCHAR(150)  NOT NULL,
	phone              VARCHAR(30)   NOT NULL,
	location           VARCHAR(255)  NOT NULL,
	latitude           DOUBLE        NULL,
	longitude          DOUBLE        NULL,
	delivery_notes     TEXT          NULL,
	subtotal           DECIMAL(10,2) NOT NULL,
	delivery_fee       DECIMAL(10,2) NOT NULL DEFAULT 0.00,
	total              DECIMAL(10,2) NOT NULL,
	status             VARCHAR(20)   NOT NULL DEFAULT 'pending',
	payment_verified   TINYINT(1)    NOT NULL DEFAULT 0,
	transaction_id     VARCHAR(64)   NULL,
	estimated_delivery DATETIME(3)   NULL,
	created_at         DATETIME(3)   NOT NULL,
	updated_at         DATETIME(3)   NOT NULL,
	INDEX idx_orders_status (status),
	INDEX idx_orders_created (created_at)
);

CREATE TABLE IF NOT EXISTS order_items (
	id         INT UNSIGNED  NOT NULL AUTO_INCREMENT PRIMARY KEY,
	order_id   VARCHAR(40)   NOT NULL,
	product_id VARCHAR(36)   NOT NULL,
	title      VARCHAR(255)  NOT NULL,
	quantity   INT           NOT NULL,
	unit_price DECIMAL(10,2) NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id),
	INDEX idx_order_items_order (order_id)
);

CREATE TABLE IF NOT EXISTS payments (
	id               VARCHAR(36)   NOT NULL PRIMARY KEY,
	order_id         VARCHAR(40)   NOT NULL,
	amount           DECIMAL(10,2) NOT NULL,
	currency         VARCHAR(3)    NOT NULL,
	transaction_id   VARCHAR(64)   NOT NULL UNIQUE,
	status           VARCHAR(20)   NOT NULL DEFAULT 'pending',
	gateway_response TEXT          NULL,
	verified_at      DATETIME(3)   NULL,
	created_at       DATETIME(3)   NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders(id),
	INDEX idx_payments_order (order_id)
);
`
