package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/arnarg/webshop-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Cart{}, &models.CartLine{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)

	require.NotNil(t, withCtx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	assert.Same(t, db, base.DB(nil))
}

func TestConditionalUpdate_TouchesOnlySuppliedFields(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()

	name := "Jane Doe"
	address := "1 Main St"
	cart := &models.Cart{UserID: 7, IsOrder: false, Name: &name, Address: &address}
	require.NoError(t, db.Create(cart).Error)

	var updated models.Cart
	err := base.ConditionalUpdate(ctx, &updated, cart.ID,
		[]string{"is_order"}, []any{true})
	require.NoError(t, err)

	assert.True(t, updated.IsOrder)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Jane Doe", *updated.Name)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "1 Main St", *updated.Address)
}

func TestConditionalUpdate_SkipsNilValues(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()

	cart := &models.Cart{UserID: 3}
	require.NoError(t, db.Create(cart).Error)

	name := "Jane Doe"
	var updated models.Cart
	err := base.ConditionalUpdate(ctx, &updated, cart.ID,
		[]string{"name", "address"}, []any{name, nil})
	require.NoError(t, err)

	require.NotNil(t, updated.Name)
	assert.Equal(t, "Jane Doe", *updated.Name)
	assert.Nil(t, updated.Address)
}

func TestConditionalUpdate_MissingRow(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	var dest models.Cart
	err := base.ConditionalUpdate(context.Background(), &dest, 9999,
		[]string{"is_order"}, []any{true})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestConditionalUpdate_LengthMismatch(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	var dest models.Cart
	err := base.ConditionalUpdate(context.Background(), &dest, 1,
		[]string{"name", "address"}, []any{"only one"})
	assert.True(t, errors.Is(err, ErrFieldValueMismatch))
}

func TestConditionalUpdate_SurplusValuesRejected(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	ctx := context.Background()

	line := &models.CartLine{CartID: 1, ProductID: 7, Amount: 2}
	require.NoError(t, db.Create(line).Error)

	var updated models.CartLine
	err := base.ConditionalUpdate(ctx, &updated, line.ID,
		[]string{"amount"}, []any{int64(9), int64(777)})
	assert.True(t, errors.Is(err, ErrFieldValueMismatch))

	var reloaded models.CartLine
	require.NoError(t, db.First(&reloaded, "id = ?", line.ID).Error)
	assert.Equal(t, int64(2), reloaded.Amount)
}
