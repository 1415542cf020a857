package schema

// Logical column types used by declared schemas. Extracted schemas carry the
// engine's own type names instead.
const (
	TypeSerial    = "serial"
	TypeInteger   = "integer"
	TypeText      = "text"
	TypeBoolean   = "boolean"
	TypeDate      = "date"
	TypeTimestamp = "timestamp"
	TypeJSON      = "json"
	TypeEnum      = "enum"
)

// Cardinalities reported for relations
const (
	OneToOne  = "1:1"
	ManyToOne = "N:1"
)

// ReferentialAction is the ON DELETE behaviour of a foreign key
type ReferentialAction string

const (
	Cascade  ReferentialAction = "CASCADE"
	Restrict ReferentialAction = "RESTRICT"
	SetNull  ReferentialAction = "SET NULL"
	NoAction ReferentialAction = "NO ACTION"
)

// Schema represents a complete database schema
type Schema struct {
	Tables []Table
	Views  []View
}

// Table represents a database table
type Table struct {
	Name       string
	Comment    string
	Columns    []Column
	Relations  []Relation
	Indexes    []Index
	Checks     []Check
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name         string
	Type         string
	Nullable     bool
	DefaultValue *string
	IsUnique     bool
	EnumValues   []string
}

// Relation represents a foreign key relationship
type Relation struct {
	Name         string
	TargetTable  string
	TargetColumn string
	SourceColumn string
	Cardinality  string // 1:1, N:1
	OnDelete     ReferentialAction
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// Check represents a CHECK constraint
type Check struct {
	Name    string
	Columns []string
	Expr    string
}

// View represents a derived view
type View struct {
	Name       string
	Comment    string
	Definition string
	DependsOn  []string
}

// Table returns the named table or nil
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// View returns the named view or nil
func (s *Schema) View(name string) *View {
	for i := range s.Views {
		if s.Views[i].Name == name {
			return &s.Views[i]
		}
	}
	return nil
}

// Column returns the named column or nil
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether column is part of the primary key
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// Relation returns the relation whose source is column, or nil
func (t *Table) Relation(column string) *Relation {
	for i := range t.Relations {
		if t.Relations[i].SourceColumn == column {
			return &t.Relations[i]
		}
	}
	return nil
}

// ChecksOn returns the checks that mention column
func (t *Table) ChecksOn(column string) []Check {
	var checks []Check
	for _, c := range t.Checks {
		for _, col := range c.Columns {
			if col == column {
				checks = append(checks, c)
				break
			}
		}
	}
	return checks
}

// InferCardinality returns 1:1 when the source column alone identifies a row
// of table (sole primary key column or unique), otherwise N:1.
func InferCardinality(table *Table, rel Relation) string {
	if len(table.PrimaryKey) == 1 && table.PrimaryKey[0] == rel.SourceColumn {
		return OneToOne
	}
	if col := table.Column(rel.SourceColumn); col != nil && col.IsUnique {
		return OneToOne
	}
	return ManyToOne
}
