package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/pkg/committer"
)

// dummyMut stands in for a real mutation; fakes hold aggregate pointers, so
// state changes are visible without applying anything.
func dummyMut() *spanner.Mutation {
	return spanner.Insert("noop", []string{"k"}, []interface{}{"v"})
}

type fakeApplier struct {
	plans   []*committer.CommitPlan
	failure error
}

func (f *fakeApplier) Apply(_ context.Context, plan *committer.CommitPlan) error {
	if f.failure != nil {
		return f.failure
	}
	f.plans = append(f.plans, plan)
	return nil
}

func (f *fakeApplier) applied() int { return len(f.plans) }

type fakeProducts struct {
	items map[string]*domain.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: make(map[string]*domain.Product)}
}

func (f *fakeProducts) InsertMut(p *domain.Product) (*spanner.Mutation, error) {
	f.items[p.ID()] = p
	return dummyMut(), nil
}

func (f *fakeProducts) UpdateMut(p *domain.Product) (*spanner.Mutation, error) {
	if !p.Changes().HasChanges() {
		return nil, nil
	}
	return dummyMut(), nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) CountActiveBySubCategory(_ context.Context, subCategoryID string) (int64, error) {
	var count int64
	for _, p := range f.items {
		if p.SubCategoryID() == subCategoryID && p.IsActive() && !p.IsDeleted() {
			count++
		}
	}
	return count, nil
}

func (f *fakeProducts) ListByDiscount(_ context.Context, discountID string) ([]*domain.Product, error) {
	var linked []*domain.Product
	for _, p := range f.items {
		if p.IsDeleted() {
			continue
		}
		if id := p.DiscountID(); id != nil && *id == discountID {
			linked = append(linked, p)
		}
	}
	return linked, nil
}

type fakeVariants struct {
	items map[string]*domain.Variant
}

func newFakeVariants() *fakeVariants {
	return &fakeVariants{items: make(map[string]*domain.Variant)}
}

func (f *fakeVariants) InsertMut(v *domain.Variant) *spanner.Mutation {
	f.items[v.ID()] = v
	return dummyMut()
}

func (f *fakeVariants) UpdateMut(v *domain.Variant) *spanner.Mutation {
	if !v.Changes().HasChanges() {
		return nil
	}
	return dummyMut()
}

func (f *fakeVariants) GetByID(_ context.Context, id string) (*domain.Variant, error) {
	v, ok := f.items[id]
	if !ok {
		return nil, domain.ErrVariantNotFound
	}
	return v, nil
}

func (f *fakeVariants) ListByProduct(_ context.Context, productID string) ([]*domain.Variant, error) {
	var variants []*domain.Variant
	for _, v := range f.items {
		if v.ProductID() == productID && !v.IsDeleted() {
			variants = append(variants, v)
		}
	}
	return variants, nil
}

type fakeDiscounts struct {
	items map[string]*domain.Discount
}

func newFakeDiscounts() *fakeDiscounts {
	return &fakeDiscounts{items: make(map[string]*domain.Discount)}
}

func (f *fakeDiscounts) InsertMut(d *domain.Discount) *spanner.Mutation {
	f.items[d.ID()] = d
	return dummyMut()
}

func (f *fakeDiscounts) UpdateMut(d *domain.Discount) *spanner.Mutation {
	if !d.Changes().HasChanges() {
		return nil
	}
	return dummyMut()
}

func (f *fakeDiscounts) GetByID(_ context.Context, id string) (*domain.Discount, error) {
	d, ok := f.items[id]
	if !ok {
		return nil, domain.ErrDiscountNotFound
	}
	return d, nil
}

type fakeSubCategories struct {
	items map[string]*domain.SubCategory
}

func newFakeSubCategories() *fakeSubCategories {
	return &fakeSubCategories{items: make(map[string]*domain.SubCategory)}
}

func (f *fakeSubCategories) InsertMut(s *domain.SubCategory) *spanner.Mutation {
	f.items[s.ID()] = s
	return dummyMut()
}

func (f *fakeSubCategories) UpdateMut(s *domain.SubCategory) *spanner.Mutation {
	if !s.Changes().HasChanges() {
		return nil
	}
	return dummyMut()
}

func (f *fakeSubCategories) GetByID(_ context.Context, id string) (*domain.SubCategory, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, domain.ErrSubCategoryNotFound
	}
	return s, nil
}

type fakeAudit struct {
	entries []*contracts.AuditEntry
	failure error
}

func (f *fakeAudit) InsertMut(entry *contracts.AuditEntry) (*spanner.Mutation, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	f.entries = append(f.entries, entry)
	return dummyMut(), nil
}

type scheduledJob struct {
	kind    string
	payload map[string]string
	runAt   time.Time
}

type fakeJobs struct {
	scheduled []scheduledJob
}

func (f *fakeJobs) EnqueueMut(kind string, payload map[string]string, now time.Time) (*spanner.Mutation, error) {
	return f.ScheduleMut(kind, payload, now)
}

func (f *fakeJobs) ScheduleMut(kind string, payload map[string]string, runAt time.Time) (*spanner.Mutation, error) {
	if kind == "" {
		return nil, fmt.Errorf("job kind cannot be empty")
	}
	f.scheduled = append(f.scheduled, scheduledJob{kind: kind, payload: payload, runAt: runAt})
	return dummyMut(), nil
}

func (f *fakeJobs) ListDue(context.Context, time.Time, int64) ([]*contracts.Job, error) {
	return nil, nil
}

func (f *fakeJobs) ListExpiredLeases(context.Context, time.Time, int64) ([]*contracts.Job, error) {
	return nil, nil
}

func (f *fakeJobs) ListCompletedBefore(context.Context, time.Time, int64) ([]*contracts.Job, error) {
	return nil, nil
}

func (f *fakeJobs) MarkRunningMut(string, int64, time.Time) *spanner.Mutation { return dummyMut() }

func (f *fakeJobs) MarkCompletedMut(string, time.Time) *spanner.Mutation { return dummyMut() }

func (f *fakeJobs) RequeueMut(string, time.Time, string) *spanner.Mutation { return dummyMut() }

func (f *fakeJobs) MarkFailedMut(string, string) *spanner.Mutation { return dummyMut() }

func (f *fakeJobs) DeleteMut(string) *spanner.Mutation { return dummyMut() }

type fakeCache struct {
	sets    map[string]interface{}
	removed [][]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{sets: make(map[string]interface{})}
}

func (f *fakeCache) Get(string, interface{}) (bool, error) { return false, nil }

func (f *fakeCache) Set(key string, value interface{}, _ time.Duration, _ []string) error {
	f.sets[key] = value
	return nil
}

func (f *fakeCache) RemoveByTags(tags []string) {
	f.removed = append(f.removed, tags)
}

func (f *fakeCache) removedTags() map[string]bool {
	seen := make(map[string]bool)
	for _, tags := range f.removed {
		for _, tag := range tags {
			seen[tag] = true
		}
	}
	return seen
}

type fakeReporter struct {
	reports []string
}

func (f *fakeReporter) Report(_ context.Context, operation string, _ error) {
	f.reports = append(f.reports, operation)
}
