package schema

import (
	"fmt"
	"strings"
)

// ValidationError lists every structural problem found in a schema
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid schema: %s", strings.Join(e.Problems, "; "))
}

// Validate checks that the schema is internally consistent: keys, foreign
// keys, checks and enumerations all refer to columns that exist and can
// carry them.
func (s *Schema) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	seen := make(map[string]bool, len(s.Tables))
	for i := range s.Tables {
		table := &s.Tables[i]
		if seen[table.Name] {
			addf("duplicate table %s", table.Name)
		}
		seen[table.Name] = true

		if len(table.PrimaryKey) == 0 {
			addf("%s: no primary key", table.Name)
		}
		for _, pk := range table.PrimaryKey {
			col := table.Column(pk)
			if col == nil {
				addf("%s: primary key column %s does not exist", table.Name, pk)
				continue
			}
			if col.Nullable {
				addf("%s: primary key column %s is nullable", table.Name, pk)
			}
		}

		for _, col := range table.Columns {
			if col.Type == TypeEnum && len(col.EnumValues) == 0 {
				addf("%s.%s: enum without values", table.Name, col.Name)
			}
			if col.Type == TypeSerial && !(len(table.PrimaryKey) == 1 && table.PrimaryKey[0] == col.Name) {
				addf("%s.%s: serial column must be the sole primary key", table.Name, col.Name)
			}
		}

		for _, rel := range table.Relations {
			s.validateRelation(table, rel, addf)
		}

		for _, check := range table.Checks {
			if check.Expr == "" {
				addf("%s: check %s has no expression", table.Name, check.Name)
			}
			for _, c := range check.Columns {
				if table.Column(c) == nil {
					addf("%s: check %s mentions unknown column %s", table.Name, check.Name, c)
				}
			}
		}

		for _, idx := range table.Indexes {
			for _, c := range idx.Columns {
				if table.Column(c) == nil {
					addf("%s: index %s on unknown column %s", table.Name, idx.Name, c)
				}
			}
		}
	}

	for _, view := range s.Views {
		if seen[view.Name] {
			addf("view %s collides with a table", view.Name)
		}
		for _, dep := range view.DependsOn {
			if s.Table(dep) == nil {
				addf("view %s depends on unknown table %s", view.Name, dep)
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (s *Schema) validateRelation(table *Table, rel Relation, addf func(string, ...any)) {
	source := table.Column(rel.SourceColumn)
	if source == nil {
		addf("%s: foreign key column %s does not exist", table.Name, rel.SourceColumn)
		return
	}

	switch rel.OnDelete {
	case Cascade, Restrict, NoAction:
	case SetNull:
		if !source.Nullable {
			addf("%s.%s: ON DELETE SET NULL on a NOT NULL column", table.Name, rel.SourceColumn)
		}
	default:
		addf("%s.%s: missing or unknown ON DELETE action %q", table.Name, rel.SourceColumn, rel.OnDelete)
	}

	target := s.Table(rel.TargetTable)
	if target == nil {
		addf("%s.%s references unknown table %s", table.Name, rel.SourceColumn, rel.TargetTable)
		return
	}

	targetCol := target.Column(rel.TargetColumn)
	if targetCol == nil {
		addf("%s.%s references unknown column %s.%s", table.Name, rel.SourceColumn, rel.TargetTable, rel.TargetColumn)
		return
	}

	isKey := len(target.PrimaryKey) == 1 && target.PrimaryKey[0] == rel.TargetColumn
	if !isKey && !targetCol.IsUnique {
		addf("%s.%s references %s.%s which is neither the primary key nor unique",
			table.Name, rel.SourceColumn, rel.TargetTable, rel.TargetColumn)
	}
}
