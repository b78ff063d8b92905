// Package datasync copies lesson view counts between view stores.
package datasync

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/itnihongo/kaiwa/internal/views"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	New     int
	Skipped int
	Updated int
	Invalid int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer reads the counts of one store and writes them to another.
type Importer struct {
	source views.Store
	target views.Setter
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(source views.Store, target views.Setter, writer io.Writer) *Importer {
	return &Importer{
		source: source,
		target: target,
		writer: writer,
	}
}

// Import copies every count of the source. Ids the target already has are
// skipped unless UpdateExisting is set, and then only when the count differs.
func (imp *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	counts, err := imp.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("source.All() > %w", err)
	}
	existing, err := imp.target.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("target.All() > %w", err)
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result ImportResult
	for _, id := range ids {
		count := counts[id]
		if _, err := views.SanitizeID(id); err != nil {
			fmt.Fprintf(imp.writer, "  [WARN]  invalid id %q\n", id)
			result.Invalid++
			continue
		}

		current, ok := existing[id]
		if ok && (!opts.UpdateExisting || current == count) {
			fmt.Fprintf(imp.writer, "  [SKIP]  %s (%d)\n", id, current)
			result.Skipped++
			continue
		}
		if !opts.DryRun {
			if err := imp.target.Set(ctx, id, count); err != nil {
				return nil, fmt.Errorf("target.Set(%s) > %w", id, err)
			}
		}
		if ok {
			fmt.Fprintf(imp.writer, "  [UPDATE]  %s (%d -> %d)\n", id, current, count)
			result.Updated++
			continue
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %s (%d)\n", id, count)
		result.New++
	}
	return &result, nil
}
