package schema

import (
	"fmt"
	"strings"
)

// Model is the canonical, immutable-after-construction in-memory schema.
// It exclusively owns Tables; Tables exclusively own Columns and Links.
// Query IR nodes hold only borrowed references into a Model and must not
// outlive it.
type Model struct {
	Tables           []*Table
	StoredProcedures []*StoredProcedure
	Metadata         map[string]string

	tablesByDbName      map[string]*Table // keyed lower-case
	tablesByGraphQLName map[string]*Table // case-sensitive
	spByGraphQLName     map[string]*StoredProcedure

	frozen bool
}

// NewModel returns an empty Model ready for table/stored-procedure
// registration during the startup build phase.
func NewModel() *Model {
	return &Model{
		Metadata:            make(map[string]string),
		tablesByDbName:      make(map[string]*Table),
		tablesByGraphQLName: make(map[string]*Table),
		spByGraphQLName:     make(map[string]*StoredProcedure),
	}
}

// AddTable registers a table, indexing it by both database name
// (case-insensitive) and GraphQL name (case-sensitive).
func (m *Model) AddTable(t *Table) error {
	key := strings.ToLower(t.DbName)
	if _, exists := m.tablesByDbName[key]; exists {
		return fmt.Errorf("schema: duplicate table %q", t.DbName)
	}
	m.Tables = append(m.Tables, t)
	m.tablesByDbName[key] = t
	m.tablesByGraphQLName[t.GraphQLName] = t
	return nil
}

// AddStoredProcedure registers a stored procedure under its GraphQL name.
func (m *Model) AddStoredProcedure(sp *StoredProcedure) {
	m.StoredProcedures = append(m.StoredProcedures, sp)
	m.spByGraphQLName[sp.FullGraphQlName()] = sp
}

// TableByDbName looks up a table case-insensitively by database name.
func (m *Model) TableByDbName(name string) (*Table, bool) {
	t, ok := m.tablesByDbName[strings.ToLower(name)]
	return t, ok
}

// TableByGraphQLName looks up a table case-sensitively by GraphQL name.
func (m *Model) TableByGraphQLName(name string) (*Table, bool) {
	t, ok := m.tablesByGraphQLName[name]
	return t, ok
}

// StoredProcedureByGraphQLName looks up a stored procedure by its
// FullGraphQlName.
func (m *Model) StoredProcedureByGraphQLName(name string) (*StoredProcedure, bool) {
	sp, ok := m.spByGraphQLName[name]
	return sp, ok
}

// Freeze marks the model as built; it documents the "constructed once,
// read concurrently thereafter" invariant from spec §5 but performs no
// runtime enforcement beyond exposing IsFrozen, matching the teacher's
// convention-not-compiler-enforced immutability (spec §9).
func (m *Model) Freeze() { m.frozen = true }

// IsFrozen reports whether Freeze has been called.
func (m *Model) IsFrozen() bool { return m.frozen }

// AddLink creates a foreign-key Link between childColumn (on childTable)
// and parentColumn (on parentTable), registers it as a SingleLink on the
// child and a MultiLink on the parent, and names it per spec §3 (see
// link.go's doc comment for the disambiguation rule).
func (m *Model) AddLink(childTable *Table, childColumn *Column, parentTable *Table, parentColumn *Column) {
	singleName := disambiguateLinkName(childTable.SingleLinks, parentTable.GraphQLName, childColumn.GraphQLName)
	multiName := disambiguateLinkName(parentTable.MultiLinks, childTable.GraphQLName, childColumn.GraphQLName)

	link := &Link{
		Name:         singleName,
		ChildTable:   childTable,
		ChildColumn:  childColumn,
		ParentTable:  parentTable,
		ParentColumn: parentColumn,
	}
	childTable.SingleLinks[singleName] = link

	// The MultiLink is a distinct Link value (same edge, opposite name) so
	// that each side's map key is independently meaningful, matching
	// spec §3's "referenced once as a SingleLink ... and once as a
	// MultiLink" wording.
	reverse := &Link{
		Name:         multiName,
		ChildTable:   childTable,
		ChildColumn:  childColumn,
		ParentTable:  parentTable,
		ParentColumn: parentColumn,
	}
	parentTable.MultiLinks[multiName] = reverse
}

func disambiguateLinkName(existing map[string]*Link, preferred, fkColumnGraphQLName string) string {
	if _, taken := existing[preferred]; !taken {
		return preferred
	}
	disambiguated := GraphQLName(trimIdSuffix(fkColumnGraphQLName)) + strings.ToUpper(preferred[:1]) + preferred[1:]
	if _, taken := existing[disambiguated]; !taken {
		return disambiguated
	}
	// Extremely rare third collision: fall back to the raw column name.
	return fkColumnGraphQLName
}

// TablesInDependencyOrder returns tables ordered so that every table
// appears after every table it single-links to (parents before children),
// breaking ties by declaration order. Used by the CLI's schema dump; the
// tree sync engine orders operations by nesting depth instead.
func (m *Model) TablesInDependencyOrder() []*Table {
	visited := make(map[*Table]bool, len(m.Tables))
	var order []*Table

	var visit func(t *Table)
	visit = func(t *Table) {
		if visited[t] {
			return
		}
		visited[t] = true
		for _, link := range t.SingleLinks {
			if link.ParentTable != t {
				visit(link.ParentTable)
			}
		}
		order = append(order, t)
	}
	for _, t := range m.Tables {
		visit(t)
	}
	return order
}
