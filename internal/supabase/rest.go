package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"welux-admin/internal/backend"
)

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func tablePath(table string) (string, error) {
	if !tableNameRe.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return "/rest/v1/" + table, nil
}

func idFilter(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

func (c *Client) SelectAll(ctx context.Context, table string, order backend.Order, dest any) error {
	path, err := tablePath(table)
	if err != nil {
		return err
	}
	q := url.Values{"select": {"*"}}
	if order.Column != "" {
		dir := "desc"
		if order.Ascending {
			dir = "asc"
		}
		q.Set("order", order.Column+"."+dir)
	}
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   path,
		query:  q,
		bearer: c.accessToken(ctx),
	}, dest)
}

func (c *Client) SelectByID(ctx context.Context, table, id string, dest any) error {
	path, err := tablePath(table)
	if err != nil {
		return err
	}
	q := idFilter(id)
	q.Set("select", "*")

	var rows []json.RawMessage
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   path,
		query:  q,
		bearer: c.accessToken(ctx),
	}, &rows); err != nil {
		return err
	}
	return firstRow(rows, dest)
}

func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	path, err := tablePath(table)
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   path,
		body:   row,
		bearer: c.accessToken(ctx),
		prefer: "return=representation",
	}, &rows); err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return firstRow(rows, dest)
}

// Update is a partial overwrite of the given fields on one row.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any, dest any) error {
	path, err := tablePath(table)
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   path,
		query:  idFilter(id),
		body:   fields,
		bearer: c.accessToken(ctx),
		prefer: "return=representation",
	}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	if dest == nil {
		return nil
	}
	return firstRow(rows, dest)
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	path, err := tablePath(table)
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   path,
		query:  idFilter(id),
		bearer: c.accessToken(ctx),
		prefer: "return=representation",
	}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func firstRow(rows []json.RawMessage, dest any) error {
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}
