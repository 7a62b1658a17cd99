package loader

import (
	"github.com/dbindex-bench/harness/types"
)

// Column lists for the bulk-copy targets. Identity columns are omitted;
// the database assigns ids so later entities can reference them.
var (
	DepartmentColumns = []string{
		"name", "description", "manager_id", "created_at", "is_active",
	}
	UserColumns = []string{
		"first_name", "last_name", "email", "phone", "date_of_birth",
		"created_at", "last_login", "city", "state", "country", "zip_code",
		"salary", "department_id", "is_active", "notes",
	}
	OrderColumns = []string{
		"user_id", "order_date", "total_amount", "status",
		"shipping_address", "shipped_date", "delivered_date", "notes",
	}
)

// DepartmentRows converts department records to bulk-copy rows.
func DepartmentRows(deps []types.Department) [][]interface{} {
	rows := make([][]interface{}, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, []interface{}{
			d.Name, d.Description, d.ManagerID, d.CreatedAt, d.IsActive,
		})
	}
	return rows
}

// UserRows converts user records to bulk-copy rows.
func UserRows(users []types.User) [][]interface{} {
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{
			u.FirstName, u.LastName, u.Email, u.Phone, u.DateOfBirth,
			u.CreatedAt, u.LastLogin, u.City, u.State, u.Country, u.ZipCode,
			u.Salary, u.DepartmentID, u.IsActive, u.Notes,
		})
	}
	return rows
}

// OrderRows converts order records to bulk-copy rows.
func OrderRows(orders []types.Order) [][]interface{} {
	rows := make([][]interface{}, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []interface{}{
			o.UserID, o.OrderDate, o.TotalAmount, o.Status,
			o.ShippingAddress, o.ShippedDate, o.DeliveredDate, o.Notes,
		})
	}
	return rows
}
