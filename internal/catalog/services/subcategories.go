package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/catalog/domain"
	"github.com/light-bringer/catalog-service/internal/models/m_audit"
	"github.com/light-bringer/catalog-service/internal/pkg/clock"
	"github.com/light-bringer/catalog-service/internal/pkg/committer"
	"github.com/light-bringer/catalog-service/internal/pkg/result"
)

// SubCategoryDTO is the caller-facing projection of a subcategory.
type SubCategoryDTO struct {
	SubCategoryID string `json:"subCategoryId"`
	Name          string `json:"name"`
	IsActive      bool   `json:"isActive"`
}

// SubCategoryManager owns subcategory lifecycle operations. Demotion by
// cascade lives in the aggregator; this manager handles the manual surface.
type SubCategoryManager struct {
	subCategories contracts.SubCategoryRepository
	applier       contracts.PlanApplier
	audit         contracts.AuditRepository
	invalidator   *CacheInvalidator
	reporter      contracts.ErrorReporter
	clock         clock.Clock
	logger        *zap.Logger
}

// NewSubCategoryManager creates a new SubCategoryManager.
func NewSubCategoryManager(
	subCategories contracts.SubCategoryRepository,
	applier contracts.PlanApplier,
	audit contracts.AuditRepository,
	invalidator *CacheInvalidator,
	reporter contracts.ErrorReporter,
	clk clock.Clock,
	logger *zap.Logger,
) *SubCategoryManager {
	return &SubCategoryManager{
		subCategories: subCategories,
		applier:       applier,
		audit:         audit,
		invalidator:   invalidator,
		reporter:      reporter,
		clock:         clk,
		logger:        logger,
	}
}

// CreateSubCategory creates an inactive subcategory.
func (m *SubCategoryManager) CreateSubCategory(ctx context.Context, name, userID string) (res *result.Result[*SubCategoryDTO]) {
	const op = "subcategory.create"
	defer guard(ctx, m.logger, m.reporter, op, &res)

	subCategory, err := domain.NewSubCategory(uuid.New().String(), name, m.clock.Now(), m.clock)
	if err != nil {
		return fail[*SubCategoryDTO](err)
	}

	plan := committer.NewPlan()
	plan.Add(m.subCategories.InsertMut(subCategory))
	if err := m.addAudit(plan, userID, subCategory.ID(), m_audit.OpCreate,
		fmt.Sprintf("subcategory %s created as %q", subCategory.ID(), name)); err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := m.applier.Apply(ctx, plan); err != nil {
		return m.failOp(ctx, op, err)
	}

	m.invalidator.OnSubCategoryMutation()
	return result.OK(subCategoryToDTO(subCategory))
}

// ActivateSubCategory promotes a subcategory. Manual only; the cascade never
// re-activates.
func (m *SubCategoryManager) ActivateSubCategory(ctx context.Context, subCategoryID, userID string) (res *result.Result[*SubCategoryDTO]) {
	const op = "subcategory.activate"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, subCategoryID, userID, m_audit.OpActivate,
		fmt.Sprintf("subcategory %s activated", subCategoryID),
		(*domain.SubCategory).Activate)
}

// DeactivateSubCategory demotes a subcategory manually.
func (m *SubCategoryManager) DeactivateSubCategory(ctx context.Context, subCategoryID, userID string) (res *result.Result[*SubCategoryDTO]) {
	const op = "subcategory.deactivate"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, subCategoryID, userID, m_audit.OpDeactivate,
		fmt.Sprintf("subcategory %s deactivated", subCategoryID),
		(*domain.SubCategory).Deactivate)
}

// DeleteSubCategory soft-deletes a subcategory.
func (m *SubCategoryManager) DeleteSubCategory(ctx context.Context, subCategoryID, userID string) (res *result.Result[*SubCategoryDTO]) {
	const op = "subcategory.delete"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, subCategoryID, userID, m_audit.OpDelete,
		fmt.Sprintf("subcategory %s deleted", subCategoryID),
		(*domain.SubCategory).SoftDelete)
}

// RestoreSubCategory clears the deletion marker; the subcategory lands
// inactive.
func (m *SubCategoryManager) RestoreSubCategory(ctx context.Context, subCategoryID, userID string) (res *result.Result[*SubCategoryDTO]) {
	const op = "subcategory.restore"
	defer guard(ctx, m.logger, m.reporter, op, &res)
	return m.applyTransition(ctx, op, subCategoryID, userID, m_audit.OpRestore,
		fmt.Sprintf("subcategory %s restored", subCategoryID),
		(*domain.SubCategory).Restore)
}

func (m *SubCategoryManager) applyTransition(
	ctx context.Context,
	op, subCategoryID, userID, auditOp, description string,
	transition func(*domain.SubCategory, time.Time) error,
) *result.Result[*SubCategoryDTO] {
	subCategory, err := m.subCategories.GetByID(ctx, subCategoryID)
	if err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := transition(subCategory, m.clock.Now()); err != nil {
		return fail[*SubCategoryDTO](err)
	}

	plan := committer.NewPlan()
	plan.Add(m.subCategories.UpdateMut(subCategory))
	if err := m.addAudit(plan, userID, subCategoryID, auditOp, description); err != nil {
		return m.failOp(ctx, op, err)
	}

	if err := m.applier.Apply(ctx, plan); err != nil {
		return m.failOp(ctx, op, err)
	}

	m.invalidator.OnSubCategoryMutation()
	return result.OK(subCategoryToDTO(subCategory))
}

func (m *SubCategoryManager) addAudit(plan *committer.CommitPlan, userID, itemID, opType, description string) error {
	mut, err := m.audit.InsertMut(&contracts.AuditEntry{
		Description:   description,
		OperationType: opType,
		UserID:        userID,
		ItemID:        itemID,
	})
	if err != nil {
		return fmt.Errorf("build audit entry: %w", err)
	}
	plan.Add(mut)
	return nil
}

func (m *SubCategoryManager) failOp(ctx context.Context, op string, err error) *result.Result[*SubCategoryDTO] {
	if classify(err) == result.KindInternal {
		return failInternal[*SubCategoryDTO](ctx, m.logger, m.reporter, op, err)
	}
	return fail[*SubCategoryDTO](err)
}

func subCategoryToDTO(s *domain.SubCategory) *SubCategoryDTO {
	return &SubCategoryDTO{
		SubCategoryID: s.ID(),
		Name:          s.Name(),
		IsActive:      s.IsActive(),
	}
}
