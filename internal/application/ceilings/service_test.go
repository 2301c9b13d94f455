package ceilings

import (
	"context"
	"testing"

	"presupuesto-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCeilingsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.FinancialArea{}, &domain.Chapter{}, &domain.FundingSource{},
		&domain.BudgetCeiling{},
	))
	return &Service{DB: db}, db
}

func TestGet_WithRelations(t *testing.T) {
	svc, db := setupCeilingsTest(t)
	require.NoError(t, db.Create(&domain.FinancialArea{ID: 5, Name: "Recursos Materiales"}).Error)
	require.NoError(t, db.Create(&domain.Chapter{ID: 2, Key: "2000", Name: "Materiales y Suministros"}).Error)
	require.NoError(t, db.Create(&domain.FundingSource{ID: 3, Name: "Recursos Fiscales"}).Error)
	require.NoError(t, db.Create(&domain.BudgetCeiling{
		ID: 1, FinancialAreaID: 5, ChapterID: 2, FundingSourceID: 3,
		BudgetedAmount: decimal.RequireFromString("250000.500"),
	}).Error)

	ceiling, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, ceiling.FinancialArea)
	assert.Equal(t, "Recursos Materiales", ceiling.FinancialArea.Name)
	require.NotNil(t, ceiling.Chapter)
	assert.Equal(t, "Materiales y Suministros", ceiling.Chapter.Name)
	require.NotNil(t, ceiling.FundingSource)
	assert.True(t, ceiling.BudgetedAmount.Equal(decimal.RequireFromString("250000.5")))
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := setupCeilingsTest(t)

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCeilingNotFound)
}

func TestListByAreas(t *testing.T) {
	svc, db := setupCeilingsTest(t)
	for _, id := range []uint{5, 9, 12} {
		require.NoError(t, db.Create(&domain.FinancialArea{ID: id, Name: "Area"}).Error)
		require.NoError(t, db.Create(&domain.BudgetCeiling{
			FinancialAreaID: id, ChapterID: 1, FundingSourceID: 1,
			BudgetedAmount: decimal.NewFromInt(1000),
		}).Error)
	}

	ceilings, err := svc.ListByAreas(context.Background(), []uint{5, 12})
	require.NoError(t, err)
	assert.Len(t, ceilings, 2)
}
