package schema

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DependencyOrder returns table names ordered so that every table comes after
// the tables it references. Ties keep declaration order. Self references are
// ignored; any other cycle is an error.
func (s *Schema) DependencyOrder() ([]string, error) {
	position := make(map[string]int, len(s.Tables))
	for i, table := range s.Tables {
		position[table.Name] = i
	}

	// parents[t] = set of tables t references
	pending := make(map[string]map[string]bool, len(s.Tables))
	children := make(map[string][]string, len(s.Tables))
	for _, table := range s.Tables {
		deps := make(map[string]bool)
		for _, rel := range table.Relations {
			if rel.TargetTable == table.Name {
				continue
			}
			if _, ok := position[rel.TargetTable]; !ok {
				return nil, errors.Errorf("table %s references unknown table %s", table.Name, rel.TargetTable)
			}
			if !deps[rel.TargetTable] {
				deps[rel.TargetTable] = true
				children[rel.TargetTable] = append(children[rel.TargetTable], table.Name)
			}
		}
		pending[table.Name] = deps
	}

	var ready []string
	for _, table := range s.Tables {
		if len(pending[table.Name]) == 0 {
			ready = append(ready, table.Name)
		}
	}

	order := make([]string, 0, len(s.Tables))
	for len(ready) > 0 {
		sort.SliceStable(ready, func(i, j int) bool {
			return position[ready[i]] < position[ready[j]]
		})
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, child := range children[next] {
			delete(pending[child], next)
			if len(pending[child]) == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(order) != len(s.Tables) {
		var stuck []string
		for _, table := range s.Tables {
			if len(pending[table.Name]) > 0 {
				stuck = append(stuck, table.Name)
			}
		}
		return nil, errors.Errorf("foreign key cycle between tables: %s", strings.Join(stuck, ", "))
	}

	return order, nil
}

// DeleteEffect describes what happens to one dependent foreign key when a
// parent row is deleted.
type DeleteEffect struct {
	Table  string // dependent table
	Column string // referencing column
	Parent string // table whose row disappears
	Action ReferentialAction
	Depth  int // 1 for direct dependents
}

// Blocks reports whether the effect prevents the delete while dependent rows exist
func (e DeleteEffect) Blocks() bool {
	return e.Action == Restrict || e.Action == NoAction
}

// DeleteEffects walks the foreign keys that point at table and follows
// cascades transitively. SET NULL and RESTRICT stop the walk.
func (s *Schema) DeleteEffects(table string) ([]DeleteEffect, error) {
	if s.Table(table) == nil {
		return nil, errors.Errorf("unknown table %s", table)
	}

	type item struct {
		name  string
		depth int
	}

	var effects []DeleteEffect
	visited := map[string]bool{table: true}
	queue := []item{{name: table, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dependent := range s.Tables {
			for _, rel := range dependent.Relations {
				if rel.TargetTable != cur.name {
					continue
				}
				effects = append(effects, DeleteEffect{
					Table:  dependent.Name,
					Column: rel.SourceColumn,
					Parent: cur.name,
					Action: rel.OnDelete,
					Depth:  cur.depth + 1,
				})
				if rel.OnDelete == Cascade && !visited[dependent.Name] {
					visited[dependent.Name] = true
					queue = append(queue, item{name: dependent.Name, depth: cur.depth + 1})
				}
			}
		}
	}

	return effects, nil
}

// Blockers filters effects down to those that prevent deletion
func Blockers(effects []DeleteEffect) []DeleteEffect {
	var blockers []DeleteEffect
	for _, e := range effects {
		if e.Blocks() {
			blockers = append(blockers, e)
		}
	}
	return blockers
}
