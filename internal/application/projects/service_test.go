package projects

import (
	"context"
	"testing"
	"time"

	"presupuesto-backend/internal/application/access"
	"presupuesto-backend/internal/application/ceilings"
	"presupuesto-backend/internal/application/requisitions"
	"presupuesto-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func setupProjectsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.AdministrativeArea{}, &domain.FinancialArea{}, &domain.Chapter{},
		&domain.FundingSource{}, &domain.Product{}, &domain.BudgetCeiling{},
		&domain.AnnualProject{}, &domain.ProjectLedgerEvent{}, &domain.Requisition{},
		&domain.PositionAssignment{}, &domain.AnalystArea{},
	))
	svc := &Service{
		DB:       db,
		Ceilings: &ceilings.Service{DB: db},
		Access: &access.Resolver{
			Directory: &access.GormDirectory{DB: db},
			Positions: access.PositionIDs{FinanceHead: 1806, Analyst: 258},
		},
		Requisitions: &requisitions.Service{DB: db},
	}
	return svc, db
}

func seedCeiling(t *testing.T, db *gorm.DB, id, areaID uint, budgeted string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.FinancialArea{ID: areaID, Name: "Area"}).Error)
	require.NoError(t, db.Create(&domain.BudgetCeiling{
		ID:              id,
		FinancialAreaID: areaID,
		ChapterID:       1,
		FundingSourceID: 1,
		BudgetedAmount:  dec(budgeted),
	}).Error)
}

func assertInvariant(t *testing.T, p *domain.AnnualProject) {
	t.Helper()
	assert.True(t, p.Assigned.Sub(p.Used).Round(3).Equal(p.Available),
		"disponible %s != asignado %s - ejercido %s", p.Available, p.Assigned, p.Used)
}

func TestRegister_CreatesActiveProject(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")

	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("50000.000"), Description: "Papelería",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, p.Status)
	assert.True(t, p.Used.IsZero())
	assert.True(t, p.Available.Equal(dec("50000.000")))
	assertInvariant(t, p)

	var events []domain.ProjectLedgerEvent
	require.NoError(t, db.Where("id_proyecto = ?", p.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ProjectEventCreated, events[0].EventType)
}

func TestRegister_UnknownCeiling(t *testing.T) {
	svc, _ := setupProjectsTest(t)
	_, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 99, Assigned: dec("1"),
	})
	assert.Equal(t, ceilings.ErrCeilingNotFound, err)
}

func TestRegister_DuplicateActive(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")

	_, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("100"),
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("200"),
	})
	assert.Equal(t, ErrDuplicateActiveProject, err)

	var count int64
	db.Model(&domain.AnnualProject{}).Where("id_techo = ?", 10).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegister_InactiveRowDoesNotBlock(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")
	require.NoError(t, db.Create(&domain.AnnualProject{
		Year: 2026, CeilingID: 10, Status: domain.ProjectInactive,
	}).Error)

	// estado=0 must survive the insert; a column default would flip it to
	// active and break the duplicate check below
	var stored domain.AnnualProject
	require.NoError(t, db.Where("id_techo = ?", 10).First(&stored).Error)
	require.Equal(t, domain.ProjectInactive, stored.Status)

	_, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("100"),
	})
	assert.NoError(t, err)
}

func TestEnsureExists_CreatesFromCeilingBudget(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")

	p, isNew, err := svc.EnsureExists(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, time.Now().Year(), p.Year)
	assert.True(t, p.Assigned.Equal(dec("50000.000")))
	assert.True(t, p.Used.IsZero())
	assert.True(t, p.Available.Equal(dec("50000.000")))
}

func TestEnsureExists_Idempotent(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")

	first, isNew, err := svc.EnsureExists(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, isNew)

	second, isNew, err := svc.EnsureExists(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&domain.AnnualProject{}).Where("id_techo = ?", 10).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnsureExists_UnknownCeiling(t *testing.T) {
	svc, _ := setupProjectsTest(t)
	_, _, err := svc.EnsureExists(context.Background(), 99)
	assert.Equal(t, ceilings.ErrCeilingNotFound, err)
}

func TestUpdateProject_RecomputesAvailable(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")
	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("1000.000"),
	})
	require.NoError(t, err)

	used := dec("300.5005")
	updated, err := svc.UpdateProject(context.Background(), p.ID, UpdateInput{Used: &used})
	require.NoError(t, err)
	assert.True(t, updated.Used.Equal(dec("300.501")), "got %s", updated.Used)
	assert.True(t, updated.Available.Equal(dec("699.499")), "got %s", updated.Available)
	assertInvariant(t, updated)
}

func TestUpdateProject_CallerAvailableIgnoredWhenAmountsChange(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")
	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("1000"),
	})
	require.NoError(t, err)

	used := dec("100")
	bogus := dec("12345")
	updated, err := svc.UpdateProject(context.Background(), p.ID, UpdateInput{
		Used: &used, Available: &bogus,
	})
	require.NoError(t, err)
	assert.True(t, updated.Available.Equal(dec("900")))
}

func TestUpdateProject_Deactivate(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")
	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("1000"),
	})
	require.NoError(t, err)

	inactive := domain.ProjectInactive
	updated, err := svc.UpdateProject(context.Background(), p.ID, UpdateInput{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectInactive, updated.Status)

	var events []domain.ProjectLedgerEvent
	require.NoError(t, db.Where("id_proyecto = ? AND tipo_evento = ?", p.ID, domain.ProjectEventDeactivated).
		Find(&events).Error)
	assert.Len(t, events, 1)
}

func TestUpdateProject_NotFound(t *testing.T) {
	svc, _ := setupProjectsTest(t)
	_, err := svc.UpdateProject(context.Background(), 999, UpdateInput{})
	assert.Equal(t, ErrProjectNotFound, err)
}

func TestUpdateAmountUsed_OverwritesNotIncrements(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")
	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("1000"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateAmountUsed(context.Background(), p.ID, dec("400"))
	require.NoError(t, err)
	updated, err := svc.UpdateAmountUsed(context.Background(), p.ID, dec("400"))
	require.NoError(t, err)

	assert.True(t, updated.Used.Equal(dec("400")), "overwrite, not 800: got %s", updated.Used)
	assert.True(t, updated.Available.Equal(dec("600")))
	assertInvariant(t, updated)
}

func TestUpdateAmountUsed_AllowsNegativeAvailable(t *testing.T) {
	// Legacy behavior: no guard against ejercido > asignado.
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")
	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("1000"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAmountUsed(context.Background(), p.ID, dec("1500"))
	require.NoError(t, err)
	assert.True(t, updated.Available.Equal(dec("-500")))
	assertInvariant(t, updated)
}

func TestUpdateAmountUsed_GuardRejectsOverdraw(t *testing.T) {
	svc, db := setupProjectsTest(t)
	svc.RejectOverdrawnUsed = true
	seedCeiling(t, db, 10, 5, "50000.000")
	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("1000"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateAmountUsed(context.Background(), p.ID, dec("1500"))
	assert.Equal(t, ErrUsedExceedsAssigned, err)

	// rolled back: ejercido untouched
	reloaded, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Used.IsZero())
}

func TestRecordHistoricalUsage_Additive(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")

	first, err := svc.RecordHistoricalUsage(context.Background(), 10, dec("100"), nil)
	require.NoError(t, err)
	assert.True(t, first.Used.Equal(dec("100")))
	assert.True(t, first.Assigned.Equal(dec("50000.000")))

	second, err := svc.RecordHistoricalUsage(context.Background(), 10, dec("100"), nil)
	require.NoError(t, err)
	assert.True(t, second.Used.Equal(dec("200")), "additive, not overwrite: got %s", second.Used)
	assert.True(t, second.Available.Equal(dec("49800.000")))
	assertInvariant(t, second)

	var count int64
	db.Model(&domain.AnnualProject{}).Where("id_techo = ?", 10).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordHistoricalUsage_UnknownCeiling(t *testing.T) {
	svc, _ := setupProjectsTest(t)
	_, err := svc.RecordHistoricalUsage(context.Background(), 99, dec("1"), nil)
	assert.Equal(t, ceilings.ErrCeilingNotFound, err)
}

func TestHistory_EventsInOrder(t *testing.T) {
	svc, db := setupProjectsTest(t)
	seedCeiling(t, db, 10, 5, "50000.000")
	p, err := svc.Register(context.Background(), RegisterInput{
		Year: 2026, CeilingID: 10, Assigned: dec("1000"),
	})
	require.NoError(t, err)
	_, err = svc.UpdateAmountUsed(context.Background(), p.ID, dec("400"))
	require.NoError(t, err)
	_, err = svc.RecordHistoricalUsage(context.Background(), 10, dec("50"), nil)
	require.NoError(t, err)

	events, err := svc.History(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.ProjectEventCreated, events[0].EventType)
	assert.Equal(t, domain.ProjectEventUsedOverwritten, events[1].EventType)
	assert.Equal(t, domain.ProjectEventHistoricalIncrement, events[2].EventType)
}

func TestHistory_ProjectNotFound(t *testing.T) {
	svc, _ := setupProjectsTest(t)
	_, err := svc.History(context.Background(), 999)
	assert.Equal(t, ErrProjectNotFound, err)
}
