package structure

import (
	"context"
	"fmt"
	"log"
	"runtime"
)

// Service orchestrates one full block structure pass: resolve the provider
// set, run each provider sequentially against a fresh context, then apply the
// visibility filter exactly once. Providers never run in parallel, so the
// final span order is deterministic: provider resolution order, then append
// order within each provider.
type Service struct {
	resolver *Resolver
	logger   *log.Logger
}

// NewService builds a service over a resolver. A nil logger falls back to
// log.Default().
func NewService(resolver *Resolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{resolver: resolver, logger: logger}
}

// ComputeResult is the outcome delivered by the asynchronous entry point.
type ComputeResult struct {
	Structure *BlockStructure
	Err       error
}

// ComputeBlockStructure runs a blocking pass. Cancellation observed at a
// provider boundary aborts the pass with the cancellation error; no partial
// result is ever returned. A provider error is fatal for the whole request.
func (s *Service) ComputeBlockStructure(ctx context.Context, doc Document, policy VisibilityPolicy) (*BlockStructure, error) {
	return s.run(ctx, doc, policy, nil)
}

// ComputeBlockStructureAsync runs the same pass cooperatively: the scheduler
// may interleave other work at provider boundaries, never mid-provider. The
// returned channel delivers exactly one result. Ordering and cancellation
// semantics are identical to the blocking entry point.
func (s *Service) ComputeBlockStructureAsync(ctx context.Context, doc Document, policy VisibilityPolicy) <-chan ComputeResult {
	out := make(chan ComputeResult, 1)
	go func() {
		st, err := s.run(ctx, doc, policy, runtime.Gosched)
		out <- ComputeResult{Structure: st, Err: err}
		close(out)
	}()
	return out
}

func (s *Service) run(ctx context.Context, doc Document, policy VisibilityPolicy, yield func()) (*BlockStructure, error) {
	providers := s.resolver.ResolveProviders(doc.LanguageID())
	sc := NewContext(ctx, doc)
	for _, provider := range providers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("block structure pass cancelled: %w", err)
		}
		if yield != nil {
			yield()
		}
		if err := provider.ProvideBlockSpans(sc); err != nil {
			s.logger.Printf("provider %s failed on %s document: %v", provider.Name(), doc.LanguageID(), err)
			return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("block structure pass cancelled: %w", err)
	}
	return &BlockStructure{Spans: FilterBlockStructure(sc.spans, policy)}, nil
}
