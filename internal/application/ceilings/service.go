package ceilings

import (
	"context"
	"errors"

	"presupuesto-backend/internal/domain"

	"gorm.io/gorm"
)

var ErrCeilingNotFound = errors.New("Techo presupuestal no encontrado")

// Service is the read-only gateway to budget ceilings and their relations.
// Ceilings are owned by the catalog service; nothing here writes them.
type Service struct {
	DB *gorm.DB
}

// Get loads a ceiling with its area, chapter and funding source.
func (s *Service) Get(ctx context.Context, id uint) (*domain.BudgetCeiling, error) {
	var ceiling domain.BudgetCeiling
	err := s.DB.WithContext(ctx).
		Preload("FinancialArea").
		Preload("Chapter").
		Preload("FundingSource").
		Where("id_techo = ?", id).
		First(&ceiling).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCeilingNotFound
		}
		return nil, err
	}
	return &ceiling, nil
}

// ListByAreas returns ceilings whose financial area is in areaIDs.
func (s *Service) ListByAreas(ctx context.Context, areaIDs []uint) ([]domain.BudgetCeiling, error) {
	var ceilings []domain.BudgetCeiling
	err := s.DB.WithContext(ctx).
		Preload("FinancialArea").
		Where("id_area_fin IN ?", areaIDs).
		Find(&ceilings).Error
	return ceilings, err
}
