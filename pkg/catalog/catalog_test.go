package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vectorbase-go/dbcore/pkg/catalog"
)

func TestCatalog_New_HasDefaultSchema(t *testing.T) {
	c := catalog.New()

	record, ok := c.GetSchema(catalog.DefaultSchema)
	require.True(t, ok)
	require.NotNil(t, record.Tables)
	require.NotNil(t, record.Indexes)
}

func TestCatalog_CreateSchema(t *testing.T) {
	c := catalog.New()

	require.NoError(t, c.CreateSchema(catalog.CreateSchemaInfo{Name: "analytics"}))

	_, ok := c.GetSchema("analytics")
	require.True(t, ok)

	err := c.CreateSchema(catalog.CreateSchemaInfo{Name: "analytics"})
	require.ErrorIs(t, err, catalog.ErrAlreadyExists)
}

func TestCatalog_CreateSchema_IfNotExists(t *testing.T) {
	c := catalog.New()

	require.NoError(t, c.CreateSchema(catalog.CreateSchemaInfo{Name: "analytics"}))

	err := c.CreateSchema(catalog.CreateSchemaInfo{Name: "analytics", IfNotExists: true})
	require.NoError(t, err)
}

// P8: DropSchema(DefaultSchema) always fails, no matter the catalog state,
// and never mutates the schema set.
func TestCatalog_DropSchema_DefaultIsProtected(t *testing.T) {
	c := catalog.New()

	err := c.DropSchema(catalog.DefaultSchema)
	require.ErrorIs(t, err, catalog.ErrProtectedSchema)

	_, ok := c.GetSchema(catalog.DefaultSchema)
	require.True(t, ok)
}

func TestCatalog_DropSchema_Unknown(t *testing.T) {
	c := catalog.New()

	err := c.DropSchema("nope")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

// Scenario 6: the default schema is protected, but dropping an unrelated
// schema succeeds and leaves the default schema untouched.
func TestCatalog_Scenario6_ProtectedDefaultUnaffectsOthers(t *testing.T) {
	c := catalog.New()

	require.NoError(t, c.CreateSchema(catalog.CreateSchemaInfo{Name: "other"}))

	err := c.DropSchema(catalog.DefaultSchema)
	require.ErrorIs(t, err, catalog.ErrProtectedSchema)

	require.NoError(t, c.DropSchema("other"))

	_, ok := c.GetSchema("other")
	require.False(t, ok)

	_, ok = c.GetSchema(catalog.DefaultSchema)
	require.True(t, ok)
}

func TestCatalog_SchemaNestedTablesAndIndexes(t *testing.T) {
	c := catalog.New()

	record, ok := c.GetSchema(catalog.DefaultSchema)
	require.True(t, ok)

	_, err := record.Tables.CreateEntry("orders", catalog.KindTable, struct{}{})
	require.NoError(t, err)

	_, err = record.Indexes.CreateEntry("orders_pk", catalog.KindIndex, struct{}{})
	require.NoError(t, err)

	require.Equal(t, []string{"orders"}, record.Tables.Entries())
	require.Equal(t, []string{"orders_pk"}, record.Indexes.Entries())
}
