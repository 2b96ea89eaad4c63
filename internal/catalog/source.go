package catalog

import "context"

// Source provides the schema objects of one side of a comparison. Each
// method returns records sorted by Key.
type Source interface {
	FetchSchemas(ctx context.Context) ([]*Schema, error)
	FetchExtensions(ctx context.Context) ([]*Extension, error)
	FetchTypes(ctx context.Context) ([]*Type, error)
	FetchDomains(ctx context.Context) ([]*Domain, error)
	FetchSequences(ctx context.Context) ([]*Sequence, error)
	FetchFunctions(ctx context.Context) ([]*Function, error)
	FetchTables(ctx context.Context) ([]*Table, error)
	FetchViews(ctx context.Context) ([]*View, error)
	FetchMaterializedViews(ctx context.Context) ([]*MaterializedView, error)
	FetchIndexes(ctx context.Context) ([]*Index, error)
	FetchTriggers(ctx context.Context) ([]*Trigger, error)
	FetchPolicies(ctx context.Context) ([]*Policy, error)
	FetchEventTriggers(ctx context.Context) ([]*EventTrigger, error)
}

// Snapshot is an in-memory Source. The caller keeps every slice sorted by
// Key.
type Snapshot struct {
	Schemas           []*Schema           `json:"schemas,omitempty"`
	Extensions        []*Extension        `json:"extensions,omitempty"`
	Types             []*Type             `json:"types,omitempty"`
	Domains           []*Domain           `json:"domains,omitempty"`
	Sequences         []*Sequence         `json:"sequences,omitempty"`
	Functions         []*Function         `json:"functions,omitempty"`
	Tables            []*Table            `json:"tables,omitempty"`
	Views             []*View             `json:"views,omitempty"`
	MaterializedViews []*MaterializedView `json:"materialized_views,omitempty"`
	Indexes           []*Index            `json:"indexes,omitempty"`
	Triggers          []*Trigger          `json:"triggers,omitempty"`
	Policies          []*Policy           `json:"policies,omitempty"`
	EventTriggers     []*EventTrigger     `json:"event_triggers,omitempty"`
}

var _ Source = (*Snapshot)(nil)

func (s *Snapshot) FetchSchemas(context.Context) ([]*Schema, error) { return s.Schemas, nil }

func (s *Snapshot) FetchExtensions(context.Context) ([]*Extension, error) { return s.Extensions, nil }

func (s *Snapshot) FetchTypes(context.Context) ([]*Type, error) { return s.Types, nil }

func (s *Snapshot) FetchDomains(context.Context) ([]*Domain, error) { return s.Domains, nil }

func (s *Snapshot) FetchSequences(context.Context) ([]*Sequence, error) { return s.Sequences, nil }

func (s *Snapshot) FetchFunctions(context.Context) ([]*Function, error) { return s.Functions, nil }

func (s *Snapshot) FetchTables(context.Context) ([]*Table, error) { return s.Tables, nil }

func (s *Snapshot) FetchViews(context.Context) ([]*View, error) { return s.Views, nil }

func (s *Snapshot) FetchMaterializedViews(context.Context) ([]*MaterializedView, error) {
	return s.MaterializedViews, nil
}

func (s *Snapshot) FetchIndexes(context.Context) ([]*Index, error) { return s.Indexes, nil }

func (s *Snapshot) FetchTriggers(context.Context) ([]*Trigger, error) { return s.Triggers, nil }

func (s *Snapshot) FetchPolicies(context.Context) ([]*Policy, error) { return s.Policies, nil }

func (s *Snapshot) FetchEventTriggers(context.Context) ([]*EventTrigger, error) {
	return s.EventTriggers, nil
}
