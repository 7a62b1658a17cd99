package datagen

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbindex-bench/harness/types"
)

func seededGenerator() *Generator {
	return New(rand.New(rand.NewSource(42)))
}

func TestDepartmentsStructure(t *testing.T) {
	gen := seededGenerator()
	deps := gen.Departments(200)
	require.Len(t, deps, 200)

	now := time.Now()
	for _, d := range deps {
		assert.NotEmpty(t, d.Name)
		assert.LessOrEqual(t, len([]rune(d.Name)), MaxDepartmentName)
		assert.LessOrEqual(t, len([]rune(d.Description)), MaxDescription)
		assert.True(t, d.CreatedAt.Before(now), "creation timestamp must be in the past")
	}
}

func TestUsersReferenceProvidedDepartments(t *testing.T) {
	gen := seededGenerator()
	deptIDs := []int64{3, 17, 99}
	valid := map[int64]bool{3: true, 17: true, 99: true}

	users, err := gen.Users(500, deptIDs)
	require.NoError(t, err)
	require.Len(t, users, 500)

	for _, u := range users {
		assert.True(t, valid[u.DepartmentID], "department id %d was not provided", u.DepartmentID)
	}
}

func TestUsersFieldLengths(t *testing.T) {
	gen := seededGenerator()
	users, err := gen.Users(1000, []int64{1})
	require.NoError(t, err)

	for _, u := range users {
		assert.LessOrEqual(t, len([]rune(u.FirstName)), MaxPersonName)
		assert.LessOrEqual(t, len([]rune(u.LastName)), MaxPersonName)
		assert.LessOrEqual(t, len([]rune(u.Email)), MaxEmail)
		assert.LessOrEqual(t, len([]rune(u.Phone)), MaxPhone)
		assert.LessOrEqual(t, len([]rune(u.City)), MaxCity)
		assert.LessOrEqual(t, len([]rune(u.State)), MaxState)
		assert.LessOrEqual(t, len([]rune(u.Country)), MaxCountry)
		assert.LessOrEqual(t, len([]rune(u.ZipCode)), MaxZipCode)
		assert.LessOrEqual(t, len([]rune(u.Notes)), MaxNotes)
		assert.Contains(t, u.Email, "@")
	}
}

func TestUsersOptionalLastLogin(t *testing.T) {
	gen := seededGenerator()
	users, err := gen.Users(1000, []int64{1})
	require.NoError(t, err)

	var withLogin int
	for _, u := range users {
		if u.LastLogin != nil {
			withLogin++
			assert.False(t, u.LastLogin.Before(u.CreatedAt), "last login must not precede account creation")
		}
	}
	// ~70% sampling; structural check only, wide tolerance.
	assert.Greater(t, withLogin, 500)
	assert.Less(t, withLogin, 900)
}

func TestUsersSalaryScale(t *testing.T) {
	gen := seededGenerator()
	users, err := gen.Users(200, []int64{1})
	require.NoError(t, err)

	for _, u := range users {
		cents := u.Salary * 100
		assert.InDelta(t, cents, float64(int64(cents+0.5)), 1e-6, "salary must have at most two decimals")
	}
}

func TestUsersRequireDepartments(t *testing.T) {
	gen := seededGenerator()

	users, err := gen.Users(10, nil)
	assert.ErrorIs(t, err, ErrNoDepartments)
	assert.Nil(t, users)

	users, err = gen.Users(10, []int64{})
	assert.ErrorIs(t, err, ErrNoDepartments)
	assert.Nil(t, users)
}

func TestOrdersReferenceProvidedUsers(t *testing.T) {
	gen := seededGenerator()
	userIDs := []int64{5, 6, 7, 8}
	valid := map[int64]bool{5: true, 6: true, 7: true, 8: true}

	orders, err := gen.Orders(500, userIDs)
	require.NoError(t, err)
	require.Len(t, orders, 500)

	for _, o := range orders {
		assert.True(t, valid[o.UserID], "user id %d was not provided", o.UserID)
	}
}

func TestOrdersCausalDateOrdering(t *testing.T) {
	gen := seededGenerator()
	orders, err := gen.Orders(2000, []int64{1})
	require.NoError(t, err)

	for _, o := range orders {
		assert.Contains(t, types.OrderStatuses, o.Status)
		assert.LessOrEqual(t, len([]rune(o.Status)), MaxStatus)
		assert.LessOrEqual(t, len([]rune(o.ShippingAddress)), MaxShippingAddr)
		assert.LessOrEqual(t, len([]rune(o.Notes)), MaxNotes)

		switch o.Status {
		case types.StatusShipped:
			require.NotNil(t, o.ShippedDate)
			assert.Nil(t, o.DeliveredDate)
		case types.StatusDelivered:
			require.NotNil(t, o.ShippedDate)
			require.NotNil(t, o.DeliveredDate)
		default:
			assert.Nil(t, o.ShippedDate, "status %s must not carry a shipped date", o.Status)
			assert.Nil(t, o.DeliveredDate, "status %s must not carry a delivered date", o.Status)
		}

		if o.ShippedDate != nil {
			assert.False(t, o.ShippedDate.Before(o.OrderDate), "shipped before ordered")
		}
		if o.DeliveredDate != nil {
			assert.False(t, o.DeliveredDate.Before(*o.ShippedDate), "delivered before shipped")
		}
	}
}

func TestOrdersRequireUsers(t *testing.T) {
	gen := seededGenerator()

	orders, err := gen.Orders(10, nil)
	assert.ErrorIs(t, err, ErrNoUsers)
	assert.Nil(t, orders)
}

func TestGeneratorWithNilSource(t *testing.T) {
	gen := New(nil)
	deps := gen.Departments(5)
	assert.Len(t, deps, 5)
}
