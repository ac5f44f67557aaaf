package catalog

// DefaultSchema is the schema every [Catalog] is created with and that
// [Catalog.DropSchema] refuses to drop (spec §4.6, property P8).
const DefaultSchema = "main"

// SchemaRecord is the payload a schema's [Entry] carries: its own nested
// sets of tables and indexes. Tables and indexes carry no payload of their
// own, so they are CatalogSets over struct{}.
type SchemaRecord struct {
	Tables  *CatalogSet[struct{}]
	Indexes *CatalogSet[struct{}]
}

func newSchemaRecord() *SchemaRecord {
	return &SchemaRecord{
		Tables:  NewCatalogSet[struct{}](),
		Indexes: NewCatalogSet[struct{}](),
	}
}

// Catalog is the root namespace: a single [CatalogSet] of schemas, each
// carrying its own nested tables and indexes sets (spec §4.6).
type Catalog struct {
	Schemas *CatalogSet[*SchemaRecord]
}

// New returns a Catalog with [DefaultSchema] already created.
func New() *Catalog {
	c := &Catalog{Schemas: NewCatalogSet[*SchemaRecord]()}

	if _, err := c.Schemas.CreateEntry(DefaultSchema, KindSchema, newSchemaRecord()); err != nil {
		// CreateEntry can only fail against an existing, non-deleted head,
		// and Schemas was just constructed empty.
		panic("catalog: unreachable: default schema already present on a fresh Catalog")
	}

	return c
}

// CreateSchemaInfo parameterizes [Catalog.CreateSchema].
type CreateSchemaInfo struct {
	Name string
	// IfNotExists turns an ErrAlreadyExists for Name into a no-op success.
	IfNotExists bool
}

// CreateSchema creates a new schema. If IfNotExists is set and a live
// schema named info.Name already exists, CreateSchema returns nil without
// pushing a new version.
func (c *Catalog) CreateSchema(info CreateSchemaInfo) error {
	_, err := c.Schemas.CreateEntry(info.Name, KindSchema, newSchemaRecord())
	if err != nil {
		if err == ErrAlreadyExists && info.IfNotExists {
			return nil
		}

		return err
	}

	return nil
}

// GetSchema returns the live SchemaRecord named name, if any.
func (c *Catalog) GetSchema(name string) (*SchemaRecord, bool) {
	entry, ok := c.Schemas.GetEntry(name)
	if !ok {
		return nil, false
	}

	return entry.Value, true
}

// DropSchema drops the schema named name. DefaultSchema can never be
// dropped: attempting to do so always returns [ErrProtectedSchema], even
// if DefaultSchema was already dropped by some earlier, now-impossible
// path, and mutates nothing.
func (c *Catalog) DropSchema(name string) error {
	if name == DefaultSchema {
		return ErrProtectedSchema
	}

	if !c.Schemas.DropEntry(name) {
		return ErrNotFound
	}

	return nil
}
