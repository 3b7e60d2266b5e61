package schema

import "github.com/standardbeagle/BifrostQL-sub002/dialect"

// ParamDirection is the calling direction of a stored-procedure parameter.
type ParamDirection string

const (
	DirInput       ParamDirection = "Input"
	DirOutput      ParamDirection = "Output"
	DirInputOutput ParamDirection = "InputOutput"
)

// Parameter is one ordered parameter of a StoredProcedure.
type Parameter struct {
	Name        string
	GraphQLName string
	DataType    string
	Direction   ParamDirection
	Nullable    bool
	Ordinal     int
}

// StoredProcedure models a discovered stored procedure or function.
// Execution is delegated to a host-supplied driver adapter (spec §1); this
// type covers discovery and typing only.
type StoredProcedure struct {
	Schema      string
	DbName      string
	GraphQLName string
	Parameters  []*Parameter
	IsReadOnly  bool
}

// FullDbRef is the dialect-escaped "[schema].[name]" reference used to
// invoke the procedure.
func (sp *StoredProcedure) FullDbRef(d dialect.Dialect) string {
	return d.TableReference(sp.Schema, sp.DbName)
}

// FullGraphQlName is the name when schema is "dbo" and "schema_name"
// otherwise.
func (sp *StoredProcedure) FullGraphQlName() string {
	if sp.Schema == "" || sp.Schema == "dbo" {
		return sp.GraphQLName
	}
	return sp.Schema + "_" + sp.GraphQLName
}

// InputTypeName is the GraphQL input type name for this procedure's
// parameters.
func (sp *StoredProcedure) InputTypeName() string {
	return "sp_" + sp.DbName + "_Input"
}

// ResultTypeName is the GraphQL output type name for this procedure's
// result.
func (sp *StoredProcedure) ResultTypeName() string {
	return "sp_" + sp.DbName + "_Result"
}
