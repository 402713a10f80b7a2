package reconcile

import (
	"context"
	"errors"

	"esim-catalog/core/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Upsert finds the row of T matching key and reconciles it with attrs.
//
//   - No row: a conditional insert of key+attrs is issued. When it inserts, the
//     outcome is OutcomeCreated. When a concurrent writer inserted the same key first,
//     the insert is a no-op and the existing row is compared like any other.
//   - Existing row: every attribute of attrs is compared with the stored value. When
//     at least one differs, all of attrs is written in a single update
//     (OutcomeUpdated). Otherwise nothing is written (OutcomeUnchanged).
//
// The natural key columns must carry a unique constraint.
func Upsert[T any, P interface {
	*T
	Record
}](ctx context.Context, db *gorm.DB, key Attrs, attrs Attrs) (*T, Outcome, error) {
	tx := db.WithContext(ctx)
	table := tableName(tx, new(T))

	row, created, err := findOrInsert[T](tx, table, key, attrs)
	if err != nil {
		return nil, "", err
	}
	if created {
		return row, OutcomeCreated, nil
	}

	if len(Diff(P(row).Attributes(), attrs)) == 0 {
		return row, OutcomeUnchanged, nil
	}

	if err := tx.Model(row).Updates(map[string]any(attrs)).Error; err != nil {
		return nil, "", &WriteError{Table: table, Key: key, Op: "update", Err: err}
	}

	var updated T
	if err := tx.Where(map[string]any(key)).Take(&updated).Error; err != nil {
		return nil, "", &WriteError{Table: table, Key: key, Op: "find", Err: err}
	}
	return &updated, OutcomeUpdated, nil
}

// FindOrCreate returns the row of T matching key, inserting key+attrs when absent.
// An existing row is returned as stored (OutcomeUnchanged), even if attrs differ.
func FindOrCreate[T any](ctx context.Context, db *gorm.DB, key Attrs, attrs Attrs) (*T, Outcome, error) {
	tx := db.WithContext(ctx)
	row, created, err := findOrInsert[T](tx, tableName(tx, new(T)), key, attrs)
	if err != nil {
		return nil, "", err
	}
	if created {
		return row, OutcomeCreated, nil
	}
	return row, OutcomeUnchanged, nil
}

// findOrInsert reads the row by key, or inserts it with conflict-do-nothing and
// reads it back. created is false when the row already existed or a concurrent
// writer won the insert.
func findOrInsert[T any](tx *gorm.DB, table string, key, attrs Attrs) (*T, bool, error) {
	var row T
	err := tx.Where(map[string]any(key)).Take(&row).Error
	if err == nil {
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, &WriteError{Table: table, Key: key, Op: "find", Err: err}
	}

	values := key.Merge(attrs)
	stampTimes(tx, new(T), values)

	res := tx.Model(new(T)).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any(values))
	if res.Error != nil {
		return nil, false, &WriteError{Table: table, Key: key, Op: "create", Err: res.Error}
	}
	if err := tx.Where(map[string]any(key)).Take(&row).Error; err != nil {
		return nil, false, &WriteError{Table: table, Key: key, Op: "find", Err: err}
	}
	return &row, res.RowsAffected > 0, nil
}

// Diff returns the columns of desired whose value differs from stored, in sorted order.
// A column absent from stored counts as different.
func Diff(stored, desired Attrs) []string {
	var changed []string
	for _, k := range desired.Keys() {
		current, ok := stored[k]
		if !ok || !utils.Equal(current, desired[k]) {
			changed = append(changed, k)
		}
	}
	return changed
}

// Link inserts a join row unless it already exists and reports whether a row was added.
func Link(ctx context.Context, db *gorm.DB, row any) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, &WriteError{Table: tableName(db, row), Op: "link", Err: res.Error}
	}
	return res.RowsAffected > 0, nil
}

func parseSchema(db *gorm.DB, model any) *schema.Schema {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil
	}
	return stmt.Schema
}

func tableName(db *gorm.DB, model any) string {
	if s := parseSchema(db, model); s != nil {
		return s.Table
	}
	return "unknown"
}

// stampTimes fills auto create/update time columns, which GORM leaves empty when
// creating from a map.
func stampTimes(db *gorm.DB, model any, values Attrs) {
	s := parseSchema(db, model)
	if s == nil {
		return
	}
	now := db.NowFunc()
	for _, field := range s.Fields {
		if field.DataType != schema.Time {
			continue
		}
		if field.AutoCreateTime == 0 && field.AutoUpdateTime == 0 {
			continue
		}
		if _, ok := values[field.DBName]; !ok {
			values[field.DBName] = now
		}
	}
}
