package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/tordrt/shopschema/internal/schema"
)

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

type sqliteIndex struct {
	name   string
	unique bool
	origin string // c = CREATE INDEX, u = UNIQUE constraint, pk = primary key
}

// ExtractSchema extracts the complete schema for specified tables
// If tables is empty, extracts all tables in the database
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	var extractedTables []schema.Table

	tableNames, err := e.listObjects(ctx, "table", tables)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get table names")
	}

	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract table %s", tableName)
		}
		extractedTables = append(extractedTables, *table)
	}

	viewNames, err := e.listObjects(ctx, "view", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get view names")
	}
	views := make([]schema.View, 0, len(viewNames))
	for _, name := range viewNames {
		views = append(views, schema.View{Name: name})
	}

	return &schema.Schema{Tables: extractedTables, Views: views}, nil
}

// listObjects returns table or view names, honouring an explicit list
func (e *SQLiteExtractor) listObjects(ctx context.Context, kind string, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}

	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = ? AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// extractTable extracts all information for a single table
func (e *SQLiteExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, pk, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract columns")
	}
	table.Columns = columns
	table.PrimaryKey = pk

	indexList, err := e.listIndexes(ctx, tableName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list indexes")
	}

	for _, idx := range indexList {
		cols, err := e.indexColumns(ctx, idx.name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read index %s", idx.name)
		}

		// A single-column unique index outside the primary key marks the column unique
		if idx.unique && idx.origin != "pk" && len(cols) == 1 {
			if col := table.Column(cols[0]); col != nil && !table.IsPrimaryKey(cols[0]) {
				col.IsUnique = true
			}
		}

		// Skip auto-generated constraint indexes
		if strings.HasPrefix(idx.name, "sqlite_autoindex") || len(cols) == 0 {
			continue
		}
		table.Indexes = append(table.Indexes, schema.Index{
			Name:     idx.name,
			IsUnique: idx.unique,
			Columns:  cols,
		})
	}

	relations, err := e.extractRelations(ctx, table)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract relations")
	}
	table.Relations = relations

	return table, nil
}

// extractColumns extracts column information and the primary key in key order
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", tableName)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	pkOrder := make(map[string]int)

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		col := schema.Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0 && pk == 0,
		}

		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		if pk > 0 {
			pkOrder[name] = pk
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	pkColumns := make([]string, 0, len(pkOrder))
	for name := range pkOrder {
		pkColumns = append(pkColumns, name)
	}
	sort.Slice(pkColumns, func(i, j int) bool {
		return pkOrder[pkColumns[i]] < pkOrder[pkColumns[j]]
	})

	return columns, pkColumns, nil
}

// listIndexes reads PRAGMA index_list fully before any per-index query runs
func (e *SQLiteExtractor) listIndexes(ctx context.Context, tableName string) ([]sqliteIndex, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", tableName)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []sqliteIndex
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, err
		}
		indexes = append(indexes, sqliteIndex{name: name, unique: unique == 1, origin: origin})
	}

	sort.Slice(indexes, func(i, j int) bool { return indexes[i].name < indexes[j].name })
	return indexes, rows.Err()
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", indexName)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}
		if colName.Valid {
			columns = append(columns, colName.String)
		}
	}

	return columns, rows.Err()
}

// extractRelations extracts foreign key relationships with their ON DELETE rule
func (e *SQLiteExtractor) extractRelations(ctx context.Context, table *schema.Table) ([]schema.Relation, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", table.Name)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation

	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		rel := schema.Relation{
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			TargetColumn: toCol.String,
			OnDelete:     schema.ReferentialAction(strings.ToUpper(onDelete)),
		}
		rel.Cardinality = schema.InferCardinality(table, rel)

		relations = append(relations, rel)
	}

	// PRAGMA foreign_key_list returns constraints newest first
	sort.SliceStable(relations, func(i, j int) bool {
		return columnPosition(table, relations[i].SourceColumn) < columnPosition(table, relations[j].SourceColumn)
	})

	return relations, rows.Err()
}

func columnPosition(table *schema.Table, name string) int {
	for i, col := range table.Columns {
		if col.Name == name {
			return i
		}
	}
	return len(table.Columns)
}
