package access

import (
	"context"

	"presupuesto-backend/internal/domain"

	"gorm.io/gorm"
)

// Mode is the visibility mode computed for a user.
type Mode string

const (
	// Unrestricted sees every active project regardless of area.
	Unrestricted Mode = "unrestricted"
	// AnalystScoped sees projects whose ceiling area is in the analyst's
	// explicitly assigned financial areas.
	AnalystScoped Mode = "analyst"
	// OwnAreasScoped sees projects whose ceiling area translates from the
	// administrative areas of the user's own assignments.
	OwnAreasScoped Mode = "own-areas"
)

// Policy is the resolved visibility for one user. FinancialAreaIDs is nil for
// Unrestricted; it may be empty for OwnAreasScoped when no translation exists
// (callers answer an empty list with "areas not configured").
type Policy struct {
	Mode             Mode
	FinancialAreaIDs []uint
}

// Restricted reports whether an area filter must be applied.
func (p Policy) Restricted() bool {
	return p.Mode != Unrestricted
}

// Diagnostic is the audit payload returned next to project listings. It is
// informational only, never a security boundary.
type Diagnostic struct {
	Mode                  Mode   `json:"modo"`
	PositionIDs           []uint `json:"puestos"`
	AdministrativeAreaIDs []uint `json:"areas_administrativas"`
	FinancialAreaIDs      []uint `json:"areas_financieras"`
}

// PositionIDs names the privileged position identifiers. The legacy system
// hardcoded 1806 (finance head) and 258 (analyst) in control flow; here they
// are injected from config.
type PositionIDs struct {
	FinanceHead uint
	Analyst     uint
}

// Directory abstracts the read-only queries the resolver needs, so visibility
// rules stay testable without a live database.
type Directory interface {
	ActiveAssignments(ctx context.Context, userID uint) ([]domain.PositionAssignment, error)
	AnalystAreas(ctx context.Context, userID uint) ([]uint, error)
	TranslateAreas(ctx context.Context, administrativeAreaIDs []uint) ([]uint, error)
}

// GormDirectory implements Directory against the relational store.
type GormDirectory struct {
	DB *gorm.DB
}

func (g *GormDirectory) ActiveAssignments(ctx context.Context, userID uint) ([]domain.PositionAssignment, error) {
	var assignments []domain.PositionAssignment
	err := g.DB.WithContext(ctx).
		Where("id_usuario = ? AND estado = ?", userID, 1).
		Find(&assignments).Error
	return assignments, err
}

func (g *GormDirectory) AnalystAreas(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := g.DB.WithContext(ctx).
		Model(&domain.AnalystArea{}).
		Where("id_usuario = ?", userID).
		Pluck("id_area_fin", &ids).Error
	return ids, err
}

func (g *GormDirectory) TranslateAreas(ctx context.Context, administrativeAreaIDs []uint) ([]uint, error) {
	if len(administrativeAreaIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := g.DB.WithContext(ctx).
		Model(&domain.FinancialArea{}).
		Where("id_area IN ?", administrativeAreaIDs).
		Pluck("id_area_fin", &ids).Error
	return ids, err
}

// Resolver computes the visibility policy for a user from their active
// position assignments.
type Resolver struct {
	Directory Directory
	Positions PositionIDs
}

// Resolve returns the policy plus the audit diagnostic. Pure read; no side
// effects. Zero assignments yields ErrNoPositionsAssigned.
func (r *Resolver) Resolve(ctx context.Context, userID uint) (Policy, Diagnostic, error) {
	assignments, err := r.Directory.ActiveAssignments(ctx, userID)
	if err != nil {
		return Policy{}, Diagnostic{}, err
	}
	if len(assignments) == 0 {
		return Policy{}, Diagnostic{}, ErrNoPositionsAssigned
	}

	diag := Diagnostic{}
	isFinanceHead := false
	isAnalyst := false
	adminAreas := make([]uint, 0, len(assignments))
	seen := map[uint]bool{}
	for _, a := range assignments {
		diag.PositionIDs = append(diag.PositionIDs, a.PositionID)
		if a.PositionID == r.Positions.FinanceHead {
			isFinanceHead = true
		}
		if a.PositionID == r.Positions.Analyst {
			isAnalyst = true
		}
		if a.AdministrativeAreaID != nil && !seen[*a.AdministrativeAreaID] {
			seen[*a.AdministrativeAreaID] = true
			adminAreas = append(adminAreas, *a.AdministrativeAreaID)
		}
	}
	diag.AdministrativeAreaIDs = adminAreas

	if isFinanceHead {
		diag.Mode = Unrestricted
		return Policy{Mode: Unrestricted}, diag, nil
	}

	if isAnalyst {
		areas, err := r.Directory.AnalystAreas(ctx, userID)
		if err != nil {
			return Policy{}, Diagnostic{}, err
		}
		if len(areas) == 0 {
			// Legacy behavior: an analyst without assigned areas sees
			// everything. Candidate fix, kept for parity.
			diag.Mode = Unrestricted
			return Policy{Mode: Unrestricted}, diag, nil
		}
		diag.Mode = AnalystScoped
		diag.FinancialAreaIDs = areas
		return Policy{Mode: AnalystScoped, FinancialAreaIDs: areas}, diag, nil
	}

	financialAreas, err := r.Directory.TranslateAreas(ctx, adminAreas)
	if err != nil {
		return Policy{}, Diagnostic{}, err
	}
	diag.Mode = OwnAreasScoped
	diag.FinancialAreaIDs = financialAreas
	return Policy{Mode: OwnAreasScoped, FinancialAreaIDs: financialAreas}, diag, nil
}
