package schema

import "fmt"

// Recognized metadata keys (spec §4.3).
const (
	MetaTenantFilter          = "tenant-filter"
	MetaTenantContextKey      = "tenant-context-key"
	MetaSoftDelete            = "soft-delete"
	MetaSoftDeleteBy          = "soft-delete-by"
	MetaAutoFilter            = "auto-filter"
	MetaAutoFilterBypassRole  = "auto-filter-bypass-role"
	MetaUserAuditKey          = "user-audit-key"
	MetaPopulate              = "populate"
	MetaSpInclude             = "sp-include"
	MetaSpExclude             = "sp-exclude"
	MetaDynamicJoins          = "dynamic-joins"
)

// Default values applied when the corresponding model-scope key is absent.
const (
	DefaultTenantContextKey = "tenant_id"
	DefaultUserAuditKey     = "id"
)

// RawMetadata is the nested, host-agnostic shape the Metadata Loader
// consumes, decoded once by the caller (e.g. config.LoadMetadataFile via
// viper from a YAML sidecar file). The schema readers do not produce
// metadata; extended-property or COMMENT annotations in the catalog are
// not read.
type RawMetadata struct {
	Model  map[string]string
	Tables map[string]RawTableMetadata
}

// RawTableMetadata is the per-table slice of a RawMetadata document.
type RawTableMetadata struct {
	Values  map[string]string
	Columns map[string]map[string]string
}

// ApplyMetadata attaches raw's recognized keys to model/table/column
// metadata maps. Table and column names are matched case-insensitively
// against the model (spec §9's "case-insensitivity... throughout").
// Unrecognized keys are still stored (so a host-specific extension survives
// round-tripping) but only the keys in spec §4.3 are interpreted by the
// transformer framework.
func ApplyMetadata(m *Model, raw RawMetadata) error {
	for k, v := range raw.Model {
		m.Metadata[k] = v
	}

	for tableName, tm := range raw.Tables {
		table, ok := m.TableByDbName(tableName)
		if !ok {
			return fmt.Errorf("schema metadata: table %q not found", tableName)
		}
		for k, v := range tm.Values {
			table.Metadata[k] = v
		}
		for colName, cm := range tm.Columns {
			col, ok := table.ColumnByDbName(colName)
			if !ok {
				return fmt.Errorf("schema metadata: column %q not found in table %q", colName, tableName)
			}
			for k, v := range cm {
				col.Metadata[k] = v
			}
		}
	}
	return nil
}

// TenantContextKey returns the configured (or default) user-context key
// holding the tenant id.
func (m *Model) TenantContextKey() string {
	if v, ok := m.Metadata[MetaTenantContextKey]; ok && v != "" {
		return v
	}
	return DefaultTenantContextKey
}

// UserAuditKey returns the configured (or default) user-context key
// holding the acting user's id. When the model declares no user-audit-key,
// DefaultUserAuditKey always applies, matching GraphJin's own "if absent,
// assume the common case" convention.
func (m *Model) UserAuditKey() string {
	if v, ok := m.Metadata[MetaUserAuditKey]; ok && v != "" {
		return v
	}
	return DefaultUserAuditKey
}

// AutoFilterBypassRole returns the configured bypass role name, if any.
func (m *Model) AutoFilterBypassRole() (string, bool) {
	v, ok := m.Metadata[MetaAutoFilterBypassRole]
	return v, ok && v != ""
}

// DynamicJoinsEnabled reports the model's "dynamic-joins" setting,
// defaulting to true per spec §4.3.
func (m *Model) DynamicJoinsEnabled() bool {
	v, ok := m.Metadata[MetaDynamicJoins]
	if !ok {
		return true
	}
	return v != "false" && v != "0"
}
