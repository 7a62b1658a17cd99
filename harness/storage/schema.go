package storage

// Entity table schemas. Column widths are the storage-layer backstop for
// the generator's field clamps; a width mismatch between the two is a
// configuration defect, not a runtime condition.

const DepartmentsTable = `
CREATE TABLE IF NOT EXISTS departments (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    description VARCHAR(500),
    manager_id BIGINT,
    created_at TIMESTAMPTZ NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);`

const UsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL,
    phone VARCHAR(50),
    date_of_birth DATE,
    created_at TIMESTAMPTZ NOT NULL,
    last_login TIMESTAMPTZ,
    city VARCHAR(100),
    state VARCHAR(100),
    country VARCHAR(100),
    zip_code VARCHAR(20),
    salary NUMERIC(12,2),
    department_id BIGINT NOT NULL REFERENCES departments(id),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    notes VARCHAR(4000)
);`

const OrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    order_date TIMESTAMPTZ NOT NULL,
    total_amount NUMERIC(12,2) NOT NULL,
    status VARCHAR(50) NOT NULL,
    shipping_address VARCHAR(1000),
    shipped_date TIMESTAMPTZ,
    delivered_date TIMESTAMPTZ,
    notes VARCHAR(4000),
    CONSTRAINT orders_causal_dates CHECK (
        (shipped_date IS NULL OR shipped_date >= order_date) AND
        (delivered_date IS NULL OR (shipped_date IS NOT NULL AND delivered_date >= shipped_date))
    )
);`

const BenchmarkResultsTable = `
CREATE TABLE IF NOT EXISTS benchmark_results (
    id BIGSERIAL PRIMARY KEY,
    run_id VARCHAR(64) NOT NULL,
    test_name VARCHAR(255) NOT NULL,
    category VARCHAR(100) NOT NULL,
    avg_latency_ms DOUBLE PRECISION NOT NULL,
    measured_at TIMESTAMPTZ NOT NULL,
    notes TEXT,
    failed BOOLEAN NOT NULL DEFAULT FALSE,
    error TEXT
);`

// BaselineIndices returns DDL for the indexes that exist before the lesson
// starts: only what the foreign keys need for referential checks.
func BaselineIndices() string {
	return `
	CREATE INDEX IF NOT EXISTS idx_users_department_id ON users(department_id);
	CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
	CREATE INDEX IF NOT EXISTS idx_results_run_id ON benchmark_results(run_id);
	`
}

// LessonIndices returns DDL for the "after" indexes the lesson applies
// between benchmark passes, covering the catalog's query shapes.
func LessonIndices() string {
	return `
	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_last_first ON users(last_name, first_name);
	CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
	CREATE INDEX IF NOT EXISTS idx_users_salary ON users(salary);
	CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_user_date ON orders(user_id, order_date);
	`
}

// DropLessonIndices returns DDL reverting the lesson indexes so the
// before/after comparison can be repeated on the same dataset.
func DropLessonIndices() string {
	return `
	DROP INDEX IF EXISTS idx_users_email;
	DROP INDEX IF EXISTS idx_users_last_first;
	DROP INDEX IF EXISTS idx_users_created_at;
	DROP INDEX IF EXISTS idx_users_salary;
	DROP INDEX IF EXISTS idx_orders_order_date;
	DROP INDEX IF EXISTS idx_orders_status;
	DROP INDEX IF EXISTS idx_orders_user_date;
	`
}
