package bench

// Shape is one parameterized query category used as the unit of
// benchmarking. The SQL is fixed text; the lesson compares the same shape
// before and after indexing, so nothing about it may vary between passes.
type Shape struct {
	Name     string
	Category string
	SQL      string
}

// Query categories.
const (
	CategoryPointLookup   = "point_lookup"
	CategoryFilteredScan  = "filtered_scan"
	CategoryJoinAggregate = "join_aggregate"
	CategoryGroupBy       = "group_by"
	CategorySort          = "sort"
	CategoryPagination    = "pagination"
	CategoryRangeScan     = "range_scan"
	CategorySetFilter     = "set_filter"
)

// Catalog returns the fixed set of representative query shapes, in the
// order they are run and reported.
func Catalog() []Shape {
	return []Shape{
		{
			Name:     "user by email",
			Category: CategoryPointLookup,
			SQL: `SELECT id, first_name, last_name, email
			      FROM users
			      WHERE email = 'nobody.in.particular0@example.com'`,
		},
		{
			Name:     "active users in one state",
			Category: CategoryFilteredScan,
			SQL: `SELECT id, first_name, last_name, city
			      FROM users
			      WHERE state = 'California' AND is_active = TRUE`,
		},
		{
			Name:     "order totals per department",
			Category: CategoryJoinAggregate,
			SQL: `SELECT d.name, COUNT(o.id) AS orders, SUM(o.total_amount) AS revenue
			      FROM departments d
			      JOIN users u ON u.department_id = d.id
			      JOIN orders o ON o.user_id = u.id
			      GROUP BY d.name`,
		},
		{
			Name:     "orders grouped by status",
			Category: CategoryGroupBy,
			SQL: `SELECT status, COUNT(*) AS orders, AVG(total_amount) AS avg_amount
			      FROM orders
			      GROUP BY status`,
		},
		{
			Name:     "top earners",
			Category: CategorySort,
			SQL: `SELECT id, first_name, last_name, salary
			      FROM users
			      ORDER BY salary DESC
			      LIMIT 100`,
		},
		{
			Name:     "offset pagination deep page",
			Category: CategoryPagination,
			SQL: `SELECT id, first_name, last_name, created_at
			      FROM users
			      ORDER BY created_at, id
			      OFFSET 100000 LIMIT 50`,
		},
		{
			Name:     "keyset pagination",
			Category: CategoryPagination,
			SQL: `SELECT id, first_name, last_name, created_at
			      FROM users
			      WHERE (created_at, id) > (NOW() - INTERVAL '1 year', 0)
			      ORDER BY created_at, id
			      LIMIT 50`,
		},
		{
			Name:     "salary band",
			Category: CategoryRangeScan,
			SQL: `SELECT id, first_name, last_name, salary
			      FROM users
			      WHERE salary BETWEEN 90000 AND 110000`,
		},
		{
			Name:     "recent orders window",
			Category: CategoryRangeScan,
			SQL: `SELECT id, user_id, order_date, total_amount
			      FROM orders
			      WHERE order_date >= NOW() - INTERVAL '30 days'`,
		},
		{
			Name:     "undelivered order statuses",
			Category: CategorySetFilter,
			SQL: `SELECT id, user_id, status, order_date
			      FROM orders
			      WHERE status IN ('Pending', 'Processing', 'Shipped')
			      ORDER BY order_date DESC
			      LIMIT 1000`,
		},
	}
}
