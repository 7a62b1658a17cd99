package types

import (
	"time"
)

// Order status values as stored in the orders.status column.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Department is an organizational unit referenced by users.
type Department struct {
	ID          int64
	Name        string
	Description string
	ManagerID   *int64
	CreatedAt   time.Time
	IsActive    bool
}

// User is a person record belonging to exactly one department.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DateOfBirth  time.Time
	CreatedAt    time.Time
	LastLogin    *time.Time
	City         string
	State        string
	Country      string
	ZipCode      string
	Salary       float64
	DepartmentID int64
	IsActive     bool
	Notes        string
}

// Order is a purchase record placed by a user. ShippedDate is only set for
// shipped or delivered orders, DeliveredDate only for delivered ones, and
// OrderDate <= ShippedDate <= DeliveredDate whenever the later dates exist.
type Order struct {
	ID              int64
	UserID          int64
	OrderDate       time.Time
	TotalAmount     float64
	Status          string
	ShippingAddress string
	ShippedDate     *time.Time
	DeliveredDate   *time.Time
	Notes           string
}

// BenchmarkResult holds the aggregated timing for one query shape.
type BenchmarkResult struct {
	RunID      string
	TestName   string
	Category   string
	AvgLatency time.Duration
	MeasuredAt time.Time
	Notes      string

	// Failed marks a sentinel result recorded when every execution of the
	// shape errored; Error carries the underlying message.
	Failed bool
	Error  string
}

// LatencyStats summarizes repeated executions of a single query shape.
// When Trimmed is true the single fastest and slowest samples were dropped
// before averaging.
type LatencyStats struct {
	Avg        time.Duration
	Min        time.Duration
	Max        time.Duration
	Iterations int
	Trimmed    bool
}

// BatchRange identifies one bulk-load batch by record offsets, used when
// reporting batch failures.
type BatchRange struct {
	Start int64
	End   int64
}

// LoadStats accounts for one bulk-load pass.
type LoadStats struct {
	Requested     int64
	Attempted     int64
	Committed     int64
	Batches       int
	FailedBatches int
	FailedRanges  []BatchRange
}
