// Package diff turns the difference between two catalogs into DDL.
//
// The Driver fetches each enabled kind from both sides, classifies the
// objects by key, and hands each added, removed or changed object to the
// kind's statement writers. Creations and alterations are collected in a pre
// buffer that runs in kind order; drops are collected in a post buffer that
// runs in reverse kind order, so dependents are dropped before what they
// depend on.
package diff

import (
	"context"
	"fmt"
	"slices"

	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/fingerprint"
	"github.com/pgschema/pgreconcile/internal/logger"
	"github.com/pgschema/pgreconcile/internal/reconcile"
	"golang.org/x/sync/errgroup"
)

type differ interface {
	run(ctx context.Context, g *generator, source, target catalog.Source) (*kindResult, error)
}

// named is implemented by every catalog record.
type named interface {
	Ident() (schema, name string)
}

type kindResult struct {
	summary KindSummary
	source  any
	target  any
}

// objectKind binds the fetch, comparison and statement writers of one kind.
type objectKind[T named] struct {
	fetch  func(catalog.Source, context.Context) ([]T, error)
	key    func(T) reconcile.Key
	equal  func(a, b T) bool
	create func(g *generator, obj T)
	drop   func(g *generator, obj T)
	modify func(g *generator, from, to T)
}

// unignored drops the objects matched by the ignore patterns of kind.
func unignored[T named](g *generator, kind Kind, objs []T) []T {
	if g.cfg.Ignore == nil {
		return objs
	}
	kept := make([]T, 0, len(objs))
	for _, obj := range objs {
		schema, name := obj.Ident()
		if g.cfg.Ignore.Ignore(string(kind), schema, name) {
			g.log.Debug("Ignoring object", "schema", schema, "name", name)
			continue
		}
		kept = append(kept, obj)
	}
	return kept
}

func (k objectKind[T]) run(ctx context.Context, g *generator, source, target catalog.Source) (*kindResult, error) {
	from, to, err := k.fetchBoth(ctx, g, source, target)
	if err != nil {
		return nil, err
	}
	return k.reconcile(g, from, to, nil), nil
}

func (k objectKind[T]) fetchBoth(ctx context.Context, g *generator, source, target catalog.Source) ([]T, []T, error) {
	from, err := k.fetch(source, ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch from source: %w", err)
	}
	to, err := k.fetch(target, ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch from target: %w", err)
	}
	return unignored(g, g.kind, from), unignored(g, g.kind, to), nil
}

// reconcile hands each classified object to its writer. Objects for which
// lost reports true were dropped along with their parent, so they are
// created from scratch and never dropped on their own. A changed object
// whose writer emits nothing counts as unchanged.
func (k objectKind[T]) reconcile(g *generator, from, to []T, lost func(T) bool) *kindResult {
	res := &kindResult{source: from, target: to}
	for r := range reconcile.Classify(from, to, k.key, k.equal) {
		switch {
		case r.Class == reconcile.Added:
			res.summary.Added++
			k.create(g, r.Target)
		case r.Class == reconcile.Removed:
			res.summary.Removed++
			if lost == nil || !lost(r.Source) {
				k.drop(g, r.Source)
			}
		case lost != nil && lost(r.Target):
			res.summary.Changed++
			k.create(g, r.Target)
		case r.Class == reconcile.Changed:
			n := g.out.Len()
			k.modify(g, r.Source, r.Target)
			if g.out.Len() > n {
				res.summary.Changed++
			} else {
				res.summary.Unchanged++
			}
		default:
			res.summary.Unchanged++
		}
	}
	return res
}

// indexKind recreates the indexes of materialized views that are rebuilt,
// since dropping the view drops its indexes.
type indexKind struct {
	objectKind[*catalog.Index]
}

func (k indexKind) run(ctx context.Context, g *generator, source, target catalog.Source) (*kindResult, error) {
	from, to, err := k.fetchBoth(ctx, g, source, target)
	if err != nil {
		return nil, err
	}
	rebuilt, err := rebuiltMaterializedViews(ctx, g, source, target)
	if err != nil {
		return nil, err
	}

	lost := func(i *catalog.Index) bool {
		if !rebuilt[[2]string{i.Schema, i.Table}] {
			return false
		}
		g.log.Debug("Recreating index of rebuilt materialized view", "schema", i.Schema, "name", i.Name)
		return true
	}
	return k.reconcile(g, from, to, lost), nil
}

// rebuiltMaterializedViews returns the schema and name of every materialized
// view the materialized view writer drops and creates again.
func rebuiltMaterializedViews(ctx context.Context, g *generator, source, target catalog.Source) (map[[2]string]bool, error) {
	if !slices.Contains(g.cfg.kinds(), KindMaterializedView) {
		return nil, nil
	}
	from, err := source.FetchMaterializedViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch materialized views from source: %w", err)
	}
	to, err := target.FetchMaterializedViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch materialized views from target: %w", err)
	}
	from = unignored(g, KindMaterializedView, from)
	to = unignored(g, KindMaterializedView, to)

	rebuilt := make(map[[2]string]bool)
	for r := range reconcile.Classify(from, to, (*catalog.MaterializedView).Key, (*catalog.MaterializedView).Equal) {
		if r.Class == reconcile.Changed && materializedViewRebuilt(r.Source, r.Target) {
			rebuilt[[2]string{r.Target.Schema, r.Target.Name}] = true
		}
	}
	return rebuilt, nil
}

var differs = map[Kind]differ{
	KindSchema: objectKind[*catalog.Schema]{
		catalog.Source.FetchSchemas, (*catalog.Schema).Key, (*catalog.Schema).Equal,
		generateCreateSchemaSQL, generateDropSchemaSQL, generateModifySchemaSQL,
	},
	KindExtension: objectKind[*catalog.Extension]{
		catalog.Source.FetchExtensions, (*catalog.Extension).Key, (*catalog.Extension).Equal,
		generateCreateExtensionSQL, generateDropExtensionSQL, generateModifyExtensionSQL,
	},
	KindType: objectKind[*catalog.Type]{
		catalog.Source.FetchTypes, (*catalog.Type).Key, (*catalog.Type).Equal,
		generateCreateTypeSQL, generateDropTypeSQL, generateModifyTypeSQL,
	},
	KindDomain: objectKind[*catalog.Domain]{
		catalog.Source.FetchDomains, (*catalog.Domain).Key, (*catalog.Domain).Equal,
		generateCreateDomainSQL, generateDropDomainSQL, generateModifyDomainSQL,
	},
	KindSequence: objectKind[*catalog.Sequence]{
		catalog.Source.FetchSequences, (*catalog.Sequence).Key, (*catalog.Sequence).Equal,
		generateCreateSequenceSQL, generateDropSequenceSQL, generateModifySequenceSQL,
	},
	KindFunction: objectKind[*catalog.Function]{
		catalog.Source.FetchFunctions, (*catalog.Function).Key, (*catalog.Function).Equal,
		generateCreateFunctionSQL, generateDropFunctionSQL, generateModifyFunctionSQL,
	},
	KindTable: objectKind[*catalog.Table]{
		catalog.Source.FetchTables, (*catalog.Table).Key, (*catalog.Table).Equal,
		generateCreateTableSQL, generateDropTableSQL, generateModifyTableSQL,
	},
	KindView: objectKind[*catalog.View]{
		catalog.Source.FetchViews, (*catalog.View).Key, (*catalog.View).Equal,
		generateCreateViewSQL, generateDropViewSQL, generateModifyViewSQL,
	},
	KindMaterializedView: objectKind[*catalog.MaterializedView]{
		catalog.Source.FetchMaterializedViews, (*catalog.MaterializedView).Key, (*catalog.MaterializedView).Equal,
		generateCreateMaterializedViewSQL, generateDropMaterializedViewSQL, generateModifyMaterializedViewSQL,
	},
	KindIndex: indexKind{objectKind[*catalog.Index]{
		catalog.Source.FetchIndexes, (*catalog.Index).Key, (*catalog.Index).Equal,
		generateCreateIndexSQL, generateDropIndexSQL, generateModifyIndexSQL,
	}},
	KindTrigger: objectKind[*catalog.Trigger]{
		catalog.Source.FetchTriggers, (*catalog.Trigger).Key, (*catalog.Trigger).Equal,
		generateCreateTriggerSQL, generateDropTriggerSQL, generateModifyTriggerSQL,
	},
	KindPolicy: objectKind[*catalog.Policy]{
		catalog.Source.FetchPolicies, (*catalog.Policy).Key, (*catalog.Policy).Equal,
		generateCreatePolicySQL, generateDropPolicySQL, generateModifyPolicySQL,
	},
	KindEventTrigger: objectKind[*catalog.EventTrigger]{
		catalog.Source.FetchEventTriggers, (*catalog.EventTrigger).Key, (*catalog.EventTrigger).Equal,
		generateCreateEventTriggerSQL, generateDropEventTriggerSQL, generateModifyEventTriggerSQL,
	},
}

// Driver runs a reconciliation between two catalog sources.
type Driver struct {
	cfg *Config
}

// NewDriver creates a driver. A nil config uses DefaultConfig.
func NewDriver(cfg *Config) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Driver{cfg: cfg}
}

// Run computes the statements that turn source into target. Kinds are
// processed concurrently, each into its own Output, and merged in kind order,
// so the result does not depend on Config.Concurrency. Any fetch error
// aborts the run.
func (d *Driver) Run(ctx context.Context, source, target catalog.Source) (*Result, error) {
	log := logger.Get()
	kinds := d.cfg.kinds()
	q := d.cfg.formatter()

	outputs := make([]*Output, len(kinds))
	results := make([]*kindResult, len(kinds))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.cfg.concurrency())
	for i, kind := range kinds {
		eg.Go(func() error {
			df, ok := differs[kind]
			if !ok {
				return fmt.Errorf("unsupported object kind %q", kind)
			}

			out := &Output{}
			g := &generator{cfg: d.cfg, kind: kind, q: q, log: log.With("kind", kind.String()), out: out}
			res, err := df.run(ctx, g, source, target)
			if err != nil {
				return fmt.Errorf("failed to reconcile %s: %w", kind.Label(), err)
			}
			res.summary.Kind = kind
			outputs[i], results[i] = out, res

			log.Debug("Reconciled kind",
				"kind", kind.String(),
				"added", res.summary.Added,
				"changed", res.summary.Changed,
				"removed", res.summary.Removed,
				"statements", out.Len(),
			)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return d.assemble(kinds, outputs, results)
}

func (d *Driver) assemble(kinds []Kind, outputs []*Output, results []*kindResult) (*Result, error) {
	result := &Result{
		Summary:           &Summary{},
		singleTransaction: d.cfg.SingleTransaction,
		headerComments:    d.cfg.HeaderComments,
	}

	sourceSections := make(map[string]any, len(kinds))
	targetSections := make(map[string]any, len(kinds))
	for i, kind := range kinds {
		result.Pre = append(result.Pre, outputs[i].Pre()...)
		result.Summary.Kinds = append(result.Summary.Kinds, results[i].summary)
		sourceSections[kind.String()] = results[i].source
		targetSections[kind.String()] = results[i].target
	}
	for i := len(kinds) - 1; i >= 0; i-- {
		result.Post = append(result.Post, outputs[i].Post()...)
	}
	result.Summary.Statements = len(result.Pre) + len(result.Post)

	var err error
	if result.Summary.Source, err = fingerprint.ComputeFingerprint(sourceSections); err != nil {
		return nil, fmt.Errorf("failed to fingerprint source: %w", err)
	}
	if result.Summary.Target, err = fingerprint.ComputeFingerprint(targetSections); err != nil {
		return nil, fmt.Errorf("failed to fingerprint target: %w", err)
	}
	return result, nil
}
