package pgreconcile

import "context"

// Diff is a convenience function that reconciles two databases with default
// options and returns the SQL.
func Diff(ctx context.Context, source, target DatabaseConfig) (string, error) {
	result, err := NewClient(DiffOptions{}).Diff(ctx, source, target)
	if err != nil {
		return "", err
	}
	return result.SQL(), nil
}

// DiffSchema is a convenience function that reconciles a single schema.
func DiffSchema(ctx context.Context, source, target DatabaseConfig, schema string) (string, error) {
	result, err := NewClient(DiffOptions{IncludeSchemas: []string{schema}}).Diff(ctx, source, target)
	if err != nil {
		return "", err
	}
	return result.SQL(), nil
}
