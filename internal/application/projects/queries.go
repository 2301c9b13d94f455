package projects

import (
	"context"

	"presupuesto-backend/internal/application/access"
	"presupuesto-backend/internal/application/requisitions"
	"presupuesto-backend/internal/domain"

	"gorm.io/gorm"
)

// ListResult is the payload of the user-scoped listing: the visible projects
// plus the audit diagnostic of the filter that produced them.
type ListResult struct {
	Projects      []domain.AnnualProject `json:"proyectos"`
	FilterApplied access.Diagnostic      `json:"filtro_aplicado"`
	Msg           string                 `json:"-"`
}

// ListForUser resolves the caller's visibility policy and returns the active
// projects it allows. A user whose areas translate to nothing gets an empty
// list with the "areas not configured" message, not an error.
func (s *Service) ListForUser(ctx context.Context, userID uint) (*ListResult, error) {
	policy, diag, err := s.Access.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ListResult{FilterApplied: diag, Msg: "Proyectos obtenidos"}
	if policy.Restricted() && len(policy.FinancialAreaIDs) == 0 {
		result.Projects = []domain.AnnualProject{}
		result.Msg = "El usuario no tiene áreas configuradas"
		return result, nil
	}

	q := s.DB.WithContext(ctx).
		Preload("Ceiling").
		Preload("Ceiling.FinancialArea").
		Preload("Ceiling.Chapter").
		Preload("Ceiling.FundingSource").
		Where("estado = ?", domain.ProjectActive)
	if policy.Restricted() {
		q = q.Joins("JOIN techos_presupuestales ON techos_presupuestales.id_techo = proyectos_anuales.id_techo").
			Where("techos_presupuestales.id_area_fin IN ?", policy.FinancialAreaIDs)
	}
	if err := q.Find(&result.Projects).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID loads one project with its ceiling, chapter and funding source.
func (s *Service) GetByID(ctx context.Context, id uint) (*domain.AnnualProject, error) {
	var project domain.AnnualProject
	err := s.DB.WithContext(ctx).
		Preload("Ceiling").
		Preload("Ceiling.FinancialArea").
		Preload("Ceiling.Chapter").
		Preload("Ceiling.FundingSource").
		Where("id_proyecto = ?", id).
		First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetByYear returns every project of a fiscal year, active or not.
func (s *Service) GetByYear(ctx context.Context, year int) ([]domain.AnnualProject, error) {
	var projects []domain.AnnualProject
	err := s.DB.WithContext(ctx).
		Preload("Ceiling").
		Where("anio = ?", year).
		Order("id_proyecto ASC").
		Find(&projects).Error
	return projects, err
}

// GetByCeiling returns the projects of one ceiling, newest year first.
func (s *Service) GetByCeiling(ctx context.Context, ceilingID uint) ([]domain.AnnualProject, error) {
	var projects []domain.AnnualProject
	err := s.DB.WithContext(ctx).
		Where("id_techo = ?", ceilingID).
		Order("anio DESC").
		Find(&projects).Error
	return projects, err
}

// Summary loads a project and rolls up its requisitions.
func (s *Service) Summary(ctx context.Context, projectID uint) (*domain.AnnualProject, *requisitions.Summary, error) {
	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.Requisitions.Summarize(ctx, project)
	if err != nil {
		return nil, nil, err
	}
	return project, summary, nil
}

// History returns the ledger events of a project, oldest first.
func (s *Service) History(ctx context.Context, projectID uint) ([]domain.ProjectLedgerEvent, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	var events []domain.ProjectLedgerEvent
	err := s.DB.WithContext(ctx).
		Where("id_proyecto = ?", projectID).
		Order("id_historial ASC").
		Find(&events).Error
	return events, err
}
