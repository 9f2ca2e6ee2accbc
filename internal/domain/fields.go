package domain

// optional writes an empty optional column as nil so an update clears it.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertFields drops the nil columns of a Fields map. A new row leaves
// them to the column default instead of storing an empty string.
func InsertFields(f map[string]any) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
