package datagen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dbindex-bench/harness/types"
)

// Column widths of the target schema. The generator clamps every variable
// length field to these before handing records to the loader, so a
// truncation error from the database always means the schema drifted.
const (
	MaxDepartmentName = 100
	MaxDescription    = 500
	MaxPersonName     = 100
	MaxEmail          = 255
	MaxPhone          = 50
	MaxCity           = 100
	MaxState          = 100
	MaxCountry        = 100
	MaxZipCode        = 20
	MaxStatus         = 50
	MaxShippingAddr   = 1000
	MaxNotes          = 4000
)

// Sampling probabilities for optional and flag fields.
const (
	departmentActiveRate = 0.90
	userActiveRate       = 0.85
	userEverLoggedInRate = 0.70
	orderNotesRate       = 0.40
)

// Prerequisite errors returned when a generator is asked to reference an
// empty foreign-key set.
var (
	ErrNoDepartments = errors.New("cannot generate users: no department ids available")
	ErrNoUsers       = errors.New("cannot generate orders: no user ids available")
)

var (
	departmentNouns = []string{
		"Engineering", "Marketing", "Sales", "Finance", "Operations",
		"Support", "Research", "Logistics", "Procurement", "Legal",
		"Security", "Analytics", "Design", "Quality", "Facilities",
	}
	departmentQualifiers = []string{
		"Global", "Regional", "Core", "Digital", "Strategic",
		"Enterprise", "Field", "Platform", "Customer", "Product",
	}
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer",
		"Michael", "Linda", "David", "Elizabeth", "William", "Barbara",
		"Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
		"Carlos", "Aisha", "Wei", "Priya", "Hiroshi", "Fatima",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez",
		"Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor",
		"Nguyen", "Kim", "Patel", "Tanaka", "Ivanov", "Okafor",
	}
	emailDomains = []string{
		"example.com", "mail.test", "corp.example.org", "inbox.example.net",
	}
	cities = []string{
		"Springfield", "Riverton", "Fairview", "Kingston", "Ashland",
		"Georgetown", "Salem", "Clinton", "Madison", "Oakdale",
	}
	states = []string{
		"California", "Texas", "New York", "Florida", "Illinois",
		"Ohio", "Washington", "Colorado", "Oregon", "Georgia",
	}
	countries = []string{
		"United States", "Canada", "United Kingdom", "Germany",
		"Australia", "Japan", "Brazil", "India",
	}
	streetNames = []string{
		"Main St", "Oak Ave", "Maple Dr", "Cedar Ln", "Park Blvd",
		"Washington St", "Lake Rd", "Hill Ct", "River Way", "Elm St",
	}
	noteFragments = []string{
		"Follow up required on the quarterly review.",
		"Customer requested expedited handling.",
		"Account flagged for manual verification during onboarding.",
		"Migrated from the legacy system in the last import.",
		"Preferred contact channel is email.",
		"Multiple address changes recorded this year.",
		"Bulk discount applied at checkout.",
		"Delivery instructions: leave at the front desk.",
	}
)

// Generator builds schema-conformant synthetic records. It is not
// deterministic unless constructed with a seeded random source.
type Generator struct {
	rng *rand.Rand
	log logrus.FieldLogger
}

// New creates a generator backed by the given random source. A nil source
// falls back to a time-seeded one.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		rng: rng,
		log: logrus.WithField("component", "datagen"),
	}
}

// Departments produces n department records with past-dated creation
// timestamps and a ~90% active rate.
func (g *Generator) Departments(n int) []types.Department {
	now := time.Now().UTC()
	deps := make([]types.Department, 0, n)

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s %s",
			g.pick(departmentQualifiers), g.pick(departmentNouns))
		desc := fmt.Sprintf("Handles all %s activities across the organization. %s",
			strings.ToLower(g.pick(departmentNouns)), g.noteText(3))

		deps = append(deps, types.Department{
			Name:        Truncate(name, MaxDepartmentName),
			Description: Truncate(desc, MaxDescription),
			CreatedAt:   g.pastDate(now, 5*365),
			IsActive:    g.chance(departmentActiveRate),
		})
	}
	return deps
}

// Users produces n user records, each referencing a department id drawn
// uniformly from deptIDs. Returns ErrNoDepartments when deptIDs is empty.
func (g *Generator) Users(n int, deptIDs []int64) ([]types.User, error) {
	if len(deptIDs) == 0 {
		return nil, ErrNoDepartments
	}

	now := time.Now().UTC()
	users := make([]types.User, 0, n)

	for i := 0; i < n; i++ {
		first := g.pick(firstNames)
		last := g.pick(lastNames)
		createdAt := g.pastDate(now, 3*365)

		u := types.User{
			FirstName:    Truncate(first, MaxPersonName),
			LastName:     Truncate(last, MaxPersonName),
			Email:        g.email(first, last),
			Phone:        Truncate(g.phone(), MaxPhone),
			DateOfBirth:  g.birthDate(now),
			CreatedAt:    createdAt,
			City:         Truncate(g.pick(cities), MaxCity),
			State:        Truncate(g.pick(states), MaxState),
			Country:      Truncate(g.pick(countries), MaxCountry),
			ZipCode:      Truncate(fmt.Sprintf("%05d", g.rng.Intn(100000)), MaxZipCode),
			Salary:       round2(30000 + g.rng.Float64()*170000),
			DepartmentID: deptIDs[g.rng.Intn(len(deptIDs))],
			IsActive:     g.chance(userActiveRate),
			Notes:        Truncate(g.noteText(g.rng.Intn(40)), MaxNotes),
		}

		if g.chance(userEverLoggedInRate) {
			login := g.between(createdAt, now)
			u.LastLogin = &login
		}

		users = append(users, u)
	}
	return users, nil
}

// Orders produces n order records, each referencing a user id drawn
// uniformly from userIDs. Returns ErrNoUsers when userIDs is empty.
// Shipped and delivered dates are only generated when the sampled status
// implies them, and always respect order <= shipped <= delivered.
func (g *Generator) Orders(n int, userIDs []int64) ([]types.Order, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUsers
	}

	now := time.Now().UTC()
	orders := make([]types.Order, 0, n)

	for i := 0; i < n; i++ {
		orderDate := g.pastDate(now, 2*365)
		status := types.OrderStatuses[g.rng.Intn(len(types.OrderStatuses))]

		o := types.Order{
			UserID:          userIDs[g.rng.Intn(len(userIDs))],
			OrderDate:       orderDate,
			TotalAmount:     round2(5 + g.rng.Float64()*2000),
			Status:          Truncate(status, MaxStatus),
			ShippingAddress: Truncate(g.address(), MaxShippingAddr),
		}

		if status == types.StatusShipped || status == types.StatusDelivered {
			shipped := orderDate.Add(g.duration(7 * 24 * time.Hour))
			o.ShippedDate = &shipped
			if status == types.StatusDelivered {
				delivered := shipped.Add(g.duration(14 * 24 * time.Hour))
				o.DeliveredDate = &delivered
			}
		}

		if g.chance(orderNotesRate) {
			o.Notes = Truncate(g.noteText(g.rng.Intn(30)), MaxNotes)
		}

		orders = append(orders, o)
	}
	return orders, nil
}

// email composes a short low-collision address from truncated name parts,
// a numeric disambiguator and one of a small set of domains.
func (g *Generator) email(first, last string) string {
	addr := fmt.Sprintf("%s.%s%d@%s",
		strings.ToLower(Truncate(first, 12)),
		strings.ToLower(Truncate(last, 12)),
		g.rng.Intn(100000),
		g.pick(emailDomains),
	)
	return Truncate(addr, MaxEmail)
}

func (g *Generator) phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d",
		200+g.rng.Intn(800), g.rng.Intn(1000), g.rng.Intn(10000))
}

func (g *Generator) address() string {
	return fmt.Sprintf("%d %s, %s, %s %05d",
		1+g.rng.Intn(9999), g.pick(streetNames), g.pick(cities),
		g.pick(states), g.rng.Intn(100000))
}

// noteText joins up to n random fragments. The result can exceed every
// column width on purpose; callers clamp it through Truncate.
func (g *Generator) noteText(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, g.pick(noteFragments))
	}
	return strings.Join(parts, " ")
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

// pastDate returns a timestamp up to maxDays before ref.
func (g *Generator) pastDate(ref time.Time, maxDays int) time.Time {
	return ref.Add(-g.duration(time.Duration(maxDays) * 24 * time.Hour))
}

// between returns a timestamp uniformly distributed in [from, to].
func (g *Generator) between(from, to time.Time) time.Time {
	if !to.After(from) {
		return from
	}
	return from.Add(g.duration(to.Sub(from)))
}

func (g *Generator) duration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(g.rng.Int63n(int64(max)))
}

// birthDate samples a date of birth for an adult between 18 and 70.
func (g *Generator) birthDate(now time.Time) time.Time {
	years := 18 + g.rng.Intn(53)
	days := g.rng.Intn(365)
	return now.AddDate(-years, 0, -days).Truncate(24 * time.Hour)
}

// round2 rounds to two decimal places, matching the NUMERIC(12,2) columns.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
