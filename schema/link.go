package schema

// Link is a modeled foreign-key relation between two tables. It is
// referenced once as a SingleLink on the child (the table holding the FK
// column) and once as a MultiLink on the parent (the referenced table).
//
// Name derivation (spec §3): when a table has exactly one foreign key to a
// given parent table, the SingleLink name on the child is the parent
// table's GraphQL name and the MultiLink name on the parent is the child
// table's GraphQL name — e.g. Books.AuthorId -> Authors.Id yields
// Books.SingleLinks["authors"] and Authors.MultiLinks["books"]. When a
// table carries more than one FK to the same parent (including
// self-references), the FK column name (GraphQL-cased, minus its "Id"
// suffix) disambiguates both ends, grounded on the fkCount-driven naming
// in other_examples' tidb-graphql relationship builder.
type Link struct {
	Name string

	ChildTable  *Table
	ChildColumn *Column

	ParentTable  *Table
	ParentColumn *Column
}
