package schema

// Column is one column of a Table, as reported by the Schema Reader and
// enriched by the Metadata Loader.
type Column struct {
	DbName         string
	GraphQLName    string
	NormalizedName string
	Ordinal        int
	DataType       string
	Nullable       bool
	IsPrimaryKey   bool
	IsIdentity     bool

	Metadata map[string]string
}

// Populate returns the audit role this column plays, from its "populate"
// metadata key, and whether one is set. See spec §4.5.2.
func (c *Column) Populate() (PopulateRole, bool) {
	v, ok := c.Metadata["populate"]
	if !ok {
		return "", false
	}
	return PopulateRole(v), true
}

// PopulateRole is the recognized value of a column's "populate" metadata
// key, consumed by the audit mutation transformer.
type PopulateRole string

const (
	PopulateCreatedOn  PopulateRole = "created-on"
	PopulateCreatedBy  PopulateRole = "created-by"
	PopulateUpdatedOn  PopulateRole = "updated-on"
	PopulateUpdatedBy  PopulateRole = "updated-by"
	PopulateDeletedOn  PopulateRole = "deleted-on"
	PopulateDeletedBy  PopulateRole = "deleted-by"
)
