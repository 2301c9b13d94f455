package requisitions

import (
	"context"

	"presupuesto-backend/internal/domain"
	"presupuesto-backend/internal/pkg/money"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Spanish month names keyed by month number, plus the bucket for requisitions
// with a null or out-of-range month. Legacy report labels, kept verbatim.
var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

const NoMonthBucket = "Sin mes"

// MonthBucket aggregates the requisitions of one month.
type MonthBucket struct {
	Count         int             `json:"count"`
	TotalQuantity decimal.Decimal `json:"cantidad_total"`
	TotalAmount   decimal.Decimal `json:"monto_total"`
}

// Summary is the aggregation result for one project's requisitions.
type Summary struct {
	Requisitions  []domain.Requisition   `json:"requisiciones"`
	TotalQuantity decimal.Decimal        `json:"cantidad_total"`
	TotalAmount   decimal.Decimal        `json:"monto_total"`
	TotalPending  int                    `json:"total_pendientes"`
	Months        map[string]MonthBucket `json:"por_mes"`
}

// Service reads requisitions and rolls them up; it never writes them.
type Service struct {
	DB *gorm.DB
}

// Summarize aggregates the requisitions drawing against a project's ceiling.
// The ceiling id alone has historically joined loosely against several areas,
// so when the ceiling carries a financial area the filter includes it.
// Line amounts are quantity * unit price rounded per line; bucket and grand
// totals are rounded again after summation.
func (s *Service) Summarize(ctx context.Context, project *domain.AnnualProject) (*Summary, error) {
	q := s.DB.WithContext(ctx).
		Preload("Product").
		Where("id_techo = ?", project.CeilingID)
	if project.Ceiling != nil && project.Ceiling.FinancialAreaID != 0 {
		q = q.Where("id_area_fin = ?", project.Ceiling.FinancialAreaID)
	}

	var reqs []domain.Requisition
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}

	summary := &Summary{
		Requisitions:  reqs,
		TotalQuantity: money.Zero(),
		TotalAmount:   money.Zero(),
		Months:        make(map[string]MonthBucket, 13),
	}
	for _, name := range monthNames {
		summary.Months[name] = MonthBucket{TotalQuantity: money.Zero(), TotalAmount: money.Zero()}
	}
	summary.Months[NoMonthBucket] = MonthBucket{TotalQuantity: money.Zero(), TotalAmount: money.Zero()}

	for _, r := range reqs {
		unitPrice := money.Zero()
		if r.Product != nil {
			unitPrice = r.Product.UnitPrice
		}
		line := money.Mul(r.Quantity, unitPrice)

		summary.TotalQuantity = summary.TotalQuantity.Add(r.Quantity)
		summary.TotalAmount = summary.TotalAmount.Add(line)
		if r.ApprovedByID == nil {
			summary.TotalPending++
		}

		bucket := NoMonthBucket
		if r.Month != nil && *r.Month >= 1 && *r.Month <= 12 {
			bucket = monthNames[*r.Month-1]
		}
		m := summary.Months[bucket]
		m.Count++
		m.TotalQuantity = m.TotalQuantity.Add(r.Quantity)
		m.TotalAmount = m.TotalAmount.Add(line)
		summary.Months[bucket] = m
	}

	summary.TotalQuantity = money.Round(summary.TotalQuantity)
	summary.TotalAmount = money.Round(summary.TotalAmount)
	for name, m := range summary.Months {
		m.TotalQuantity = money.Round(m.TotalQuantity)
		m.TotalAmount = money.Round(m.TotalAmount)
		summary.Months[name] = m
	}
	return summary, nil
}
