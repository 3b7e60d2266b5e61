package main

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "modernc.org/sqlite"

	"github.com/standardbeagle/BifrostQL-sub002/config"
	"github.com/standardbeagle/BifrostQL-sub002/dialect"
	"github.com/standardbeagle/BifrostQL-sub002/gqlschema"
	"github.com/standardbeagle/BifrostQL-sub002/schema"
	"github.com/standardbeagle/BifrostQL-sub002/schemareader"
)

// sqlDriverName maps a config dialect type to the database/sql driver name
// registered by the blank imports above.
func sqlDriverName(dbType string) (string, error) {
	switch dialect.Name(dbType) {
	case dialect.Postgres:
		return "pgx", nil
	case dialect.MySql:
		return "mysql", nil
	case dialect.SqlServer:
		return "sqlserver", nil
	case dialect.Sqlite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("bifrostql: unsupported database type %q", dbType)
	}
}

func newSchemaCmd(logger *zap.Logger) *cobra.Command {
	var metadataFile string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Introspect the configured database and print the canonical model and generated GraphQL surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaCmd(logger, cfgPath, metadataFile)
		},
	}
	cmd.Flags().StringVar(&metadataFile, "metadata", "", "override the config file's metadata_file setting")
	return cmd
}

func runSchemaCmd(logger *zap.Logger, cfgPath, metadataOverride string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	metadataFile := cfg.MetadataFile
	if metadataOverride != "" {
		metadataFile = metadataOverride
	}

	driverName, err := sqlDriverName(cfg.Database.Type)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("bifrostql: failed to open connection: %w", err)
	}
	defer db.Close()

	reader, err := schemareader.ByDialect(dialect.Name(cfg.Database.Type))
	if err != nil {
		return err
	}

	ctx := context.Background()
	data, err := reader.ReadSchema(ctx, db)
	if err != nil {
		return fmt.Errorf("bifrostql: failed to read schema: %w", err)
	}

	typeMapper := schemareader.ForDialect(dialect.Name(cfg.Database.Type))
	model, err := schemareader.BuildModel(data, typeMapper)
	if err != nil {
		return fmt.Errorf("bifrostql: failed to build model: %w", err)
	}
	schemareader.ApplyTypeMapper(model, typeMapper)

	raw, err := config.LoadMetadataFile(metadataFile)
	if err != nil {
		return err
	}
	if err := schema.ApplyMetadata(model, raw); err != nil {
		return fmt.Errorf("bifrostql: failed to apply metadata: %w", err)
	}
	model.Freeze()

	printModel(model)

	gqlSchema, err := gqlschema.Generate(model)
	if err != nil {
		return fmt.Errorf("bifrostql: failed to generate GraphQL schema: %w", err)
	}
	printGraphQLSurface(gqlSchema)

	logger.Sugar().Infof("introspected %d table(s), %d stored procedure(s)", len(model.Tables), len(model.StoredProcedures))
	return nil
}

func printModel(model *schema.Model) {
	fmt.Println("# tables")
	for _, t := range model.TablesInDependencyOrder() {
		fmt.Printf("%s (%s)\n", t.GraphQLName, t.DbName)
		for _, c := range t.Columns {
			marker := ""
			if c.IsPrimaryKey {
				marker = " [pk]"
			}
			fmt.Printf("  %s %s%s\n", c.GraphQLName, c.DataType, marker)
		}
		for name, link := range t.SingleLinks {
			fmt.Printf("  -> %s: %s\n", name, link.ParentTable.GraphQLName)
		}
		for name, link := range t.MultiLinks {
			fmt.Printf("  <- %s: [%s]\n", name, link.ChildTable.GraphQLName)
		}
	}
}

// printGraphQLSurface renders a minimal SDL-like listing of the generated
// query/mutation root fields. graphql-go does not ship a schema-to-SDL
// printer the way graphql-js does, so this walks the root objects'
// FieldDefinitionMap directly rather than depending on an AST printer API
// this module doesn't otherwise need.
func printGraphQLSurface(s *graphql.Schema) {
	printFields("Query", s.QueryType())
	if mutation := s.MutationType(); mutation != nil {
		printFields("Mutation", mutation)
	}
}

func printFields(rootName string, obj *graphql.Object) {
	if obj == nil {
		return
	}
	fmt.Printf("\ntype %s {\n", rootName)
	fields := obj.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, fields[name].Type.String())
	}
	fmt.Println("}")
}
