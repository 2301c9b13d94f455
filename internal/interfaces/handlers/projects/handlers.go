package projects

import (
	"strconv"

	"presupuesto-backend/internal/application/access"
	"presupuesto-backend/internal/application/ceilings"
	projsvc "presupuesto-backend/internal/application/projects"
	"presupuesto-backend/internal/middleware"
	"presupuesto-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handlers holds dependencies for project endpoints.
type Handlers struct {
	Service *projsvc.Service
}

// statusFor maps service sentinels to HTTP statuses. Duplicate active project
// keeps the legacy 400, not 409, so existing clients keep working.
func statusFor(err error) int {
	switch err {
	case projsvc.ErrProjectNotFound, ceilings.ErrCeilingNotFound, access.ErrNoPositionsAssigned:
		return fiber.StatusNotFound
	case projsvc.ErrDuplicateActiveProject, projsvc.ErrUsedExceedsAssigned:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		return response.Fail(c, "Error interno del servidor", code)
	}
	return response.Fail(c, err.Error(), code)
}

// List GET /api/v1/projects — projects visible to the session user.
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "No autenticado")
	}
	result, err := h.Service.ListForUser(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, result.Msg, fiber.Map{
		"proyectos":       result.Projects,
		"filtro_aplicado": result.FilterApplied,
	})
}

// Get GET /api/v1/projects/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.Fail(c, "id inválido", fiber.StatusBadRequest)
	}
	project, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, "Proyecto obtenido", fiber.Map{"proyecto": project})
}

// GetByYear GET /api/v1/projects/year/:year
func (h *Handlers) GetByYear(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return response.Fail(c, "anio inválido", fiber.StatusBadRequest)
	}
	projects, err := h.Service.GetByYear(c.Context(), year)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, "Proyectos obtenidos", fiber.Map{"proyectos": projects})
}

// GetByCeiling GET /api/v1/projects/by-techo/:ceilingId?single=bool
func (h *Handlers) GetByCeiling(c *fiber.Ctx) error {
	ceilingID, err := paramUint(c, "ceilingId")
	if err != nil {
		return response.Fail(c, "id_techo inválido", fiber.StatusBadRequest)
	}
	projects, err := h.Service.GetByCeiling(c.Context(), ceilingID)
	if err != nil {
		return fail(c, err)
	}
	if c.Query("single") == "true" {
		if len(projects) == 0 {
			return response.Fail(c, projsvc.ErrProjectNotFound.Error(), fiber.StatusNotFound)
		}
		return response.OK(c, "Proyecto obtenido", fiber.Map{"proyecto": projects[0]})
	}
	return response.OK(c, "Proyectos obtenidos", fiber.Map{"proyectos": projects})
}

// RegisterRequest body for POST /api/v1/projects.
type RegisterRequest struct {
	Year        int              `json:"anio"`
	CeilingID   uint             `json:"id_techo"`
	Assigned    *decimal.Decimal `json:"asignado"`
	Description string           `json:"descripcion"`
}

// Register POST /api/v1/projects
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, "Cuerpo de la petición inválido", fiber.StatusBadRequest)
	}
	if req.Year == 0 {
		return response.Fail(c, "El campo anio es requerido", fiber.StatusBadRequest)
	}
	if req.CeilingID == 0 {
		return response.Fail(c, "El campo id_techo es requerido", fiber.StatusBadRequest)
	}
	if req.Assigned == nil {
		return response.Fail(c, "El campo asignado es requerido", fiber.StatusBadRequest)
	}

	project, err := h.Service.Register(c.Context(), projsvc.RegisterInput{
		Year:        req.Year,
		CeilingID:   req.CeilingID,
		Assigned:    *req.Assigned,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "Proyecto registrado", fiber.Map{"proyecto": project})
}

// UpdateRequest body for PUT /api/v1/projects/:id (all fields optional).
type UpdateRequest struct {
	Year        *int             `json:"anio"`
	CeilingID   *uint            `json:"id_techo"`
	Assigned    *decimal.Decimal `json:"asignado"`
	Used        *decimal.Decimal `json:"ejercido"`
	Available   *decimal.Decimal `json:"disponible"`
	Description *string          `json:"descripcion"`
	Status      *int             `json:"estado"`
}

// Update PUT /api/v1/projects/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.Fail(c, "id inválido", fiber.StatusBadRequest)
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, "Cuerpo de la petición inválido", fiber.StatusBadRequest)
	}

	project, err := h.Service.UpdateProject(c.Context(), id, projsvc.UpdateInput{
		Year:        req.Year,
		CeilingID:   req.CeilingID,
		Assigned:    req.Assigned,
		Used:        req.Used,
		Available:   req.Available,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, "Proyecto actualizado", fiber.Map{"proyecto": project})
}

// UpdateAmountRequest body for POST /api/v1/projects/update-amount.
type UpdateAmountRequest struct {
	ProjectID uint             `json:"id_proyecto"`
	Used      *decimal.Decimal `json:"ejercido"`
}

// UpdateAmount POST /api/v1/projects/update-amount — OVERWRITES ejercido.
func (h *Handlers) UpdateAmount(c *fiber.Ctx) error {
	var req UpdateAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, "Cuerpo de la petición inválido", fiber.StatusBadRequest)
	}
	if req.ProjectID == 0 {
		return response.Fail(c, "El campo id_proyecto es requerido", fiber.StatusBadRequest)
	}
	if req.Used == nil {
		return response.Fail(c, "El campo ejercido es requerido", fiber.StatusBadRequest)
	}

	project, err := h.Service.UpdateAmountUsed(c.Context(), req.ProjectID, *req.Used)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, "Monto ejercido actualizado", fiber.Map{"proyecto": project})
}

// HistoricalRequest body for POST /api/v1/projects/historical-record.
type HistoricalRequest struct {
	CeilingID   uint             `json:"id_techo"`
	Used        *decimal.Decimal `json:"ejercido"`
	Description *string          `json:"descripcion"`
}

// Historical POST /api/v1/projects/historical-record — ADDS to ejercido.
func (h *Handlers) Historical(c *fiber.Ctx) error {
	var req HistoricalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, "Cuerpo de la petición inválido", fiber.StatusBadRequest)
	}
	if req.CeilingID == 0 {
		return response.Fail(c, "El campo id_techo es requerido", fiber.StatusBadRequest)
	}
	if req.Used == nil {
		return response.Fail(c, "El campo ejercido es requerido", fiber.StatusBadRequest)
	}

	project, err := h.Service.RecordHistoricalUsage(c.Context(), req.CeilingID, *req.Used, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, "Registro histórico aplicado", fiber.Map{"proyecto": project})
}

// Requisitions GET /api/v1/projects/:id/requisitions
func (h *Handlers) Requisitions(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.Fail(c, "id inválido", fiber.StatusBadRequest)
	}
	project, summary, err := h.Service.Summary(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, "Requisiciones obtenidas", fiber.Map{
		"proyecto":         project,
		"requisiciones":    summary.Requisitions,
		"cantidad_total":   summary.TotalQuantity,
		"monto_total":      summary.TotalAmount,
		"total_pendientes": summary.TotalPending,
		"por_mes":          summary.Months,
	})
}

// History GET /api/v1/projects/:id/history
func (h *Handlers) History(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.Fail(c, "id inválido", fiber.StatusBadRequest)
	}
	events, err := h.Service.History(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, "Historial obtenido", fiber.Map{"historial": events})
}

// EnsureExists GET /api/v1/projects/ensure-exists/:ceilingId
func (h *Handlers) EnsureExists(c *fiber.Ctx) error {
	ceilingID, err := paramUint(c, "ceilingId")
	if err != nil {
		return response.Fail(c, "id_techo inválido", fiber.StatusBadRequest)
	}
	project, isNew, err := h.Service.EnsureExists(c.Context(), ceilingID)
	if err != nil {
		return fail(c, err)
	}
	msg := "Proyecto existente"
	if isNew {
		msg = "Proyecto creado"
	}
	return response.OK(c, msg, fiber.Map{"proyecto": project, "isNew": isNew})
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	return uint(v), err
}
