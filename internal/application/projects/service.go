package projects

import (
	"context"
	"encoding/json"
	"time"

	"presupuesto-backend/internal/application/access"
	"presupuesto-backend/internal/application/ceilings"
	"presupuesto-backend/internal/application/requisitions"
	"presupuesto-backend/internal/domain"
	"presupuesto-backend/internal/pkg/money"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns the annual-project ledger. Every mutating operation runs inside
// one transaction spanning its existence checks, the write, and the ledger
// event, and rolls back as a whole on any failure.
type Service struct {
	DB           *gorm.DB
	Ceilings     *ceilings.Service
	Access       *access.Resolver
	Requisitions *requisitions.Service

	// RejectOverdrawnUsed enables the optional guard against ejercido >
	// asignado. Off by default: the legacy system persists negative
	// disponible without complaint (pending product-owner clarification).
	RejectOverdrawnUsed bool
}

// RegisterInput for explicit project creation.
type RegisterInput struct {
	Year        int
	CeilingID   uint
	Assigned    decimal.Decimal
	Description string
}

// Register creates the active project for (ceiling, year). Fails with
// ErrDuplicateActiveProject when an active row already exists for the pair.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.AnnualProject, error) {
	var project *domain.AnnualProject
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = createProject(tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// EnsureExists is the idempotent variant keyed on (ceiling, current year).
// When no active project exists it creates one with assigned = the ceiling's
// budgeted amount and used = 0. The existence check and insert share one
// transaction so concurrent callers cannot create duplicate rows.
func (s *Service) EnsureExists(ctx context.Context, ceilingID uint) (*domain.AnnualProject, bool, error) {
	var project *domain.AnnualProject
	isNew := false
	year := time.Now().Year()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.AnnualProject
		err := tx.Where("id_techo = ? AND anio = ? AND estado = ?", ceilingID, year, domain.ProjectActive).
			First(&existing).Error
		if err == nil {
			project = &existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		var ceiling domain.BudgetCeiling
		if err := tx.Where("id_techo = ?", ceilingID).First(&ceiling).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ceilings.ErrCeilingNotFound
			}
			return err
		}

		project, err = createProject(tx, RegisterInput{
			Year:      year,
			CeilingID: ceilingID,
			Assigned:  ceiling.BudgetedAmount,
		})
		if err != nil {
			return err
		}
		isNew = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return project, isNew, nil
}

// UpdateInput carries the optional fields of a partial update. Available is
// honored only when neither Assigned nor Used changes; otherwise disponible is
// recomputed from the new amounts.
type UpdateInput struct {
	Year        *int
	CeilingID   *uint
	Assigned    *decimal.Decimal
	Used        *decimal.Decimal
	Available   *decimal.Decimal
	Description *string
	Status      *int
}

// UpdateProject applies a partial update and keeps the disponible invariant.
func (s *Service) UpdateProject(ctx context.Context, id uint, in UpdateInput) (*domain.AnnualProject, error) {
	var project domain.AnnualProject
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_proyecto = ?", id).First(&project).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProjectNotFound
			}
			return err
		}

		prevStatus := project.Status
		if in.Year != nil {
			project.Year = *in.Year
		}
		if in.CeilingID != nil {
			if err := tx.Where("id_techo = ?", *in.CeilingID).First(&domain.BudgetCeiling{}).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ceilings.ErrCeilingNotFound
				}
				return err
			}
			project.CeilingID = *in.CeilingID
		}
		if in.Description != nil {
			project.Description = *in.Description
		}
		if in.Status != nil {
			project.Status = *in.Status
		}

		amountsChanged := in.Assigned != nil || in.Used != nil
		if in.Assigned != nil {
			project.Assigned = money.Round(*in.Assigned)
		}
		if in.Used != nil {
			project.Used = money.Round(*in.Used)
		}
		if amountsChanged {
			project.Available = money.Sub(project.Assigned, project.Used)
			if s.RejectOverdrawnUsed && project.Available.IsNegative() {
				return ErrUsedExceedsAssigned
			}
		} else if in.Available != nil {
			project.Available = money.Round(*in.Available)
		}

		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		eventType := domain.ProjectEventAmountsUpdated
		if prevStatus == domain.ProjectActive && project.Status == domain.ProjectInactive {
			eventType = domain.ProjectEventDeactivated
		}
		return appendEvent(tx, project.ID, eventType, map[string]interface{}{
			"asignado":   project.Assigned,
			"ejercido":   project.Used,
			"disponible": project.Available,
			"estado":     project.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateAmountUsed overwrites ejercido with the given amount (it does NOT
// increment; see RecordHistoricalUsage for the additive operation) and
// recomputes disponible.
func (s *Service) UpdateAmountUsed(ctx context.Context, id uint, used decimal.Decimal) (*domain.AnnualProject, error) {
	var project domain.AnnualProject
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_proyecto = ?", id).First(&project).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProjectNotFound
			}
			return err
		}

		previous := project.Used
		project.Used = money.Round(used)
		project.Available = money.Sub(project.Assigned, project.Used)
		if s.RejectOverdrawnUsed && project.Available.IsNegative() {
			return ErrUsedExceedsAssigned
		}
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		return appendEvent(tx, project.ID, domain.ProjectEventUsedOverwritten, map[string]interface{}{
			"ejercido_anterior": previous,
			"ejercido":          project.Used,
			"disponible":        project.Available,
		})
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// RecordHistoricalUsage ADDS increment to the active project's ejercido (it
// does NOT overwrite; see UpdateAmountUsed for the replace operation). When no
// active project exists for the ceiling it creates one for the current year
// with assigned = the ceiling's budgeted amount and ejercido = increment.
func (s *Service) RecordHistoricalUsage(ctx context.Context, ceilingID uint, increment decimal.Decimal, description *string) (*domain.AnnualProject, error) {
	var project domain.AnnualProject
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ceiling domain.BudgetCeiling
		if err := tx.Where("id_techo = ?", ceilingID).First(&ceiling).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ceilings.ErrCeilingNotFound
			}
			return err
		}

		err := tx.Where("id_techo = ? AND estado = ?", ceilingID, domain.ProjectActive).
			Order("anio DESC").
			First(&project).Error
		if err == gorm.ErrRecordNotFound {
			desc := ""
			if description != nil {
				desc = *description
			}
			created, err := createProject(tx, RegisterInput{
				Year:        time.Now().Year(),
				CeilingID:   ceilingID,
				Assigned:    ceiling.BudgetedAmount,
				Description: desc,
			})
			if err != nil {
				return err
			}
			project = *created
			project.Used = money.Round(increment)
			project.Available = money.Sub(project.Assigned, project.Used)
			if err := tx.Save(&project).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			project.Used = money.Add(project.Used, increment)
			project.Available = money.Sub(project.Assigned, project.Used)
			if description != nil {
				project.Description = *description
			}
			if err := tx.Save(&project).Error; err != nil {
				return err
			}
		}

		return appendEvent(tx, project.ID, domain.ProjectEventHistoricalIncrement, map[string]interface{}{
			"incremento": money.Round(increment),
			"ejercido":   project.Used,
			"disponible": project.Available,
		})
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// createProject runs inside a caller-owned transaction: ceiling must resolve
// and no active project may exist for (ceiling, year).
func createProject(tx *gorm.DB, in RegisterInput) (*domain.AnnualProject, error) {
	if err := tx.Where("id_techo = ?", in.CeilingID).First(&domain.BudgetCeiling{}).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ceilings.ErrCeilingNotFound
		}
		return nil, err
	}

	var existing domain.AnnualProject
	err := tx.Where("id_techo = ? AND anio = ? AND estado = ?", in.CeilingID, in.Year, domain.ProjectActive).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateActiveProject
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	assigned := money.Round(in.Assigned)
	project := domain.AnnualProject{
		Year:        in.Year,
		CeilingID:   in.CeilingID,
		Assigned:    assigned,
		Used:        money.Zero(),
		Available:   assigned,
		Description: in.Description,
		Status:      domain.ProjectActive,
	}
	if err := tx.Create(&project).Error; err != nil {
		return nil, err
	}
	if err := appendEvent(tx, project.ID, domain.ProjectEventCreated, map[string]interface{}{
		"anio":       project.Year,
		"id_techo":   project.CeilingID,
		"asignado":   project.Assigned,
		"disponible": project.Available,
	}); err != nil {
		return nil, err
	}
	return &project, nil
}

func appendEvent(tx *gorm.DB, projectID uint, eventType string, detail map[string]interface{}) error {
	b, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return tx.Create(&domain.ProjectLedgerEvent{
		ProjectID: projectID,
		EventType: eventType,
		Detail:    datatypes.JSON(b),
	}).Error
}
