package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"welux-admin/internal/backend"
)

// tableSpec whitelists the columns reachable through backend.Tables.
type tableSpec struct {
	columns []string
	bools   map[string]bool
	jsons   map[string]bool
	stamp   string // column set to now on insert
}

var tables = map[string]tableSpec{
	"leads": {
		columns: []string{"id", "full_name", "email", "phone", "event_type", "event_date", "guest_count", "message", "status", "is_archived", "created_at"},
		bools:   map[string]bool{"is_archived": true},
		stamp:   "created_at",
	},
	"vlogs": {
		columns: []string{"id", "title", "description", "video_url", "thumbnail_url", "duration", "status", "views_count", "user_id", "created_at"},
		stamp:   "created_at",
	},
	"jobs": {
		columns: []string{"id", "title", "company", "location", "description", "requirements", "salary_range", "deadline", "status", "applicants_count", "created_at"},
		jsons:   map[string]bool{"requirements": true},
		stamp:   "created_at",
	},
	"stream_config": {
		columns: []string{"id", "video_id", "video_title", "platform", "is_live", "current_viewers", "last_ping", "updated_at"},
		bools:   map[string]bool{"is_live": true},
		stamp:   "updated_at",
	},
}

func specFor(table string) (tableSpec, error) {
	spec, ok := tables[table]
	if !ok {
		return tableSpec{}, &backend.RemoteError{
			Status:  http.StatusNotFound,
			Code:    "42P01",
			Message: fmt.Sprintf("relation %q does not exist", table),
		}
	}
	return spec, nil
}

func (t tableSpec) has(col string) bool {
	for _, c := range t.columns {
		if c == col {
			return true
		}
	}
	return false
}

// toColumn converts a JSON-decoded value into what sqlite stores.
func (t tableSpec) toColumn(col string, v any) (any, error) {
	switch {
	case v == nil:
		return nil, nil
	case t.bools[col]:
		b, ok := v.(bool)
		if !ok {
			return nil, badValue(col, v)
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case t.jsons[col]:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, badValue(col, v)
		}
		return string(b), nil
	}
	switch v.(type) {
	case string, float64, bool:
		return v, nil
	default:
		return nil, badValue(col, v)
	}
}

// fromColumn converts a scanned sqlite value back to its JSON shape.
// ok is false for NULL.
func (t tableSpec) fromColumn(col string, v any) (any, bool) {
	if b, isBytes := v.([]byte); isBytes {
		v = string(b)
	}
	switch {
	case v == nil:
		return nil, false
	case t.bools[col]:
		n, _ := v.(int64)
		return n != 0, true
	case t.jsons[col]:
		s, _ := v.(string)
		if !json.Valid([]byte(s)) {
			return nil, false
		}
		return json.RawMessage(s), true
	}
	return v, true
}

func badValue(col string, v any) error {
	return &backend.RemoteError{
		Status:  http.StatusBadRequest,
		Code:    "22P02",
		Message: fmt.Sprintf("invalid value for column %q: %v", col, v),
	}
}

func unknownColumn(table, col string) error {
	return &backend.RemoteError{
		Status:  http.StatusBadRequest,
		Code:    "PGRST204",
		Message: fmt.Sprintf("Could not find the '%s' column of '%s'", col, table),
	}
}

// sqlError maps constraint failures to the backend error shape.
func sqlError(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "constraint failed") {
		return &backend.RemoteError{Status: http.StatusBadRequest, Code: "23514", Message: msg}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// toMap round-trips a row through JSON so typed values ([]string, int,
// structs) arrive in their decoded form.
func toMap(row any) (map[string]any, error) {
	b, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func decodeInto(v any, dest any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

func (s *Store) query(ctx context.Context, table string, spec tableSpec, where string, args []any, orderBy string) ([]map[string]any, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s %s %s;`, strings.Join(spec.columns, ", "), table, where, orderBy)
	rows, err := s.db.Pool.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, sqlError("select "+table, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(spec.columns))
		ptrs := make([]any, len(spec.columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(spec.columns))
		for i, col := range spec.columns {
			if v, ok := spec.fromColumn(col, vals[i]); ok {
				row[col] = v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

func (s *Store) SelectAll(ctx context.Context, table string, order backend.Order, dest any) error {
	spec, err := specFor(table)
	if err != nil {
		return err
	}
	orderBy := ""
	if order.Column != "" {
		if !spec.has(order.Column) {
			return unknownColumn(table, order.Column)
		}
		dir := "DESC"
		if order.Ascending {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("ORDER BY %s %s, rowid %s", order.Column, dir, dir)
	}
	rows, err := s.query(ctx, table, spec, "", nil, orderBy)
	if err != nil {
		return err
	}
	return decodeInto(rows, dest)
}

func (s *Store) SelectByID(ctx context.Context, table, id string, dest any) error {
	spec, err := specFor(table)
	if err != nil {
		return err
	}
	rows, err := s.query(ctx, table, spec, "WHERE id = ?", []any{id}, "LIMIT 1")
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	return decodeInto(rows[0], dest)
}

func (s *Store) Insert(ctx context.Context, table string, row any, dest any) error {
	spec, err := specFor(table)
	if err != nil {
		return err
	}
	m, err := toMap(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}

	id, _ := m["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	m["id"] = id
	if spec.stamp != "" {
		if v, _ := m[spec.stamp].(string); v == "" {
			m[spec.stamp] = s.timestamp()
		}
	}

	var cols []string
	var args []any
	for _, col := range spec.columns {
		v, ok := m[col]
		if !ok || v == nil {
			continue
		}
		cv, err := spec.toColumn(col, v)
		if err != nil {
			return err
		}
		cols = append(cols, col)
		args = append(args, cv)
	}
	for k := range m {
		if !spec.has(k) {
			return unknownColumn(table, k)
		}
	}

	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s);`,
		table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?,", len(cols)), ","))
	if _, err := s.db.Pool.ExecContext(ctx, q, args...); err != nil {
		return sqlError("insert "+table, err)
	}
	if dest == nil {
		return nil
	}
	return s.SelectByID(ctx, table, id, dest)
}

func (s *Store) Update(ctx context.Context, table, id string, fields map[string]any, dest any) error {
	spec, err := specFor(table)
	if err != nil {
		return err
	}
	fields, err = toMap(fields)
	if err != nil {
		return fmt.Errorf("encode %s fields: %w", table, err)
	}
	if len(fields) == 0 {
		return &backend.RemoteError{Status: http.StatusBadRequest, Message: "no fields to update"}
	}

	var sets []string
	var args []any
	for _, col := range spec.columns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		if col == "id" {
			return &backend.RemoteError{Status: http.StatusBadRequest, Message: "id cannot be updated"}
		}
		cv, err := spec.toColumn(col, v)
		if err != nil {
			return err
		}
		sets = append(sets, col+" = ?")
		args = append(args, cv)
	}
	for k := range fields {
		if !spec.has(k) {
			return unknownColumn(table, k)
		}
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?;`, table, strings.Join(sets, ", "))
	res, err := s.db.Pool.ExecContext(ctx, q, args...)
	if err != nil {
		return sqlError("update "+table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return backend.ErrNotFound
	}
	if dest == nil {
		return nil
	}
	return s.SelectByID(ctx, table, id, dest)
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if _, err := specFor(table); err != nil {
		return err
	}
	res, err := s.db.Pool.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?;`, table), id)
	if err != nil {
		return sqlError("delete "+table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
