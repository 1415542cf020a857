package schema

import (
	"fmt"
	"strings"
)

// Difference is one point where a live schema drifts from the declared one
type Difference struct {
	Table   string
	Object  string
	Message string
}

func (d Difference) String() string {
	if d.Object == "" {
		return fmt.Sprintf("%s: %s", d.Table, d.Message)
	}
	return fmt.Sprintf("%s.%s: %s", d.Table, d.Object, d.Message)
}

// Compare reports how actual differs from declared. Column types are not
// compared since every engine spells them differently.
func Compare(declared, actual *Schema) []Difference {
	var diffs []Difference

	for i := range declared.Tables {
		want := &declared.Tables[i]
		got := actual.Table(want.Name)
		if got == nil {
			diffs = append(diffs, Difference{Table: want.Name, Message: "table missing"})
			continue
		}
		diffs = append(diffs, compareTable(want, got)...)
	}

	for _, table := range actual.Tables {
		if declared.Table(table.Name) == nil {
			diffs = append(diffs, Difference{Table: table.Name, Message: "table not declared"})
		}
	}

	for _, view := range declared.Views {
		if actual.View(view.Name) == nil {
			diffs = append(diffs, Difference{Table: view.Name, Message: "view missing"})
		}
	}

	return diffs
}

func compareTable(want, got *Table) []Difference {
	var diffs []Difference

	for _, col := range want.Columns {
		actualCol := got.Column(col.Name)
		if actualCol == nil {
			diffs = append(diffs, Difference{Table: want.Name, Object: col.Name, Message: "column missing"})
			continue
		}
		if col.Nullable != actualCol.Nullable {
			diffs = append(diffs, Difference{
				Table:   want.Name,
				Object:  col.Name,
				Message: fmt.Sprintf("nullable is %t, declared %t", actualCol.Nullable, col.Nullable),
			})
		}
		if col.IsUnique && !actualCol.IsUnique {
			diffs = append(diffs, Difference{Table: want.Name, Object: col.Name, Message: "unique constraint missing"})
		}
	}

	if strings.Join(want.PrimaryKey, ",") != strings.Join(got.PrimaryKey, ",") {
		diffs = append(diffs, Difference{
			Table:   want.Name,
			Message: fmt.Sprintf("primary key is (%s), declared (%s)", strings.Join(got.PrimaryKey, ", "), strings.Join(want.PrimaryKey, ", ")),
		})
	}

	for _, rel := range want.Relations {
		actualRel := got.Relation(rel.SourceColumn)
		if actualRel == nil {
			diffs = append(diffs, Difference{Table: want.Name, Object: rel.SourceColumn, Message: "foreign key missing"})
			continue
		}
		if actualRel.TargetTable != rel.TargetTable || actualRel.TargetColumn != rel.TargetColumn {
			diffs = append(diffs, Difference{
				Table:   want.Name,
				Object:  rel.SourceColumn,
				Message: fmt.Sprintf("references %s.%s, declared %s.%s", actualRel.TargetTable, actualRel.TargetColumn, rel.TargetTable, rel.TargetColumn),
			})
		}
		if !strings.EqualFold(string(actualRel.OnDelete), string(rel.OnDelete)) {
			diffs = append(diffs, Difference{
				Table:   want.Name,
				Object:  rel.SourceColumn,
				Message: fmt.Sprintf("ON DELETE %s, declared %s", actualRel.OnDelete, rel.OnDelete),
			})
		}
	}

	return diffs
}
