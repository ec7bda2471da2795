package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// JobHandler lida com vagas e candidaturas
type JobHandler struct {
	jobService *services.JobService
}

// NewJobHandler cria um novo JobHandler
func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// List lista vagas
//
//	@Summary	Lista vagas
//	@Tags		jobs
//	@Produce	json
//	@Param		q				query		string	false	"Busca"
//	@Param		employment_type	query		string	false	"full_time, part_time, contract ou gig"
//	@Param		remote			query		bool	false	"Somente remotas"
//	@Param		skill			query		string	false	"Habilidade"
//	@Success	200				{object}	dto.JobListResponse
//	@Router		/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	var q dto.JobListQuery
	if !bindQuery(c, &q) {
		return
	}
	filters, err := q.ToFilters()
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	jobs, total, err := h.jobService.List(c.Request.Context(), viewer(c), filters)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobListResponse(jobs, total, filters.Pagination))
}

// Get busca uma vaga
//
//	@Summary	Detalhe da vaga
//	@Tags		jobs
//	@Produce	json
//	@Param		id	path		string	true	"ID da vaga"
//	@Success	200	{object}	dto.JobResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// Create publica uma vaga
//
//	@Summary	Publica uma vaga
//	@Tags		jobs
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.JobRequest	true	"Vaga"
//	@Success	201		{object}	dto.JobResponse
//	@Router		/jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), currentUser(c), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJobResponse(job))
}

// Update altera uma vaga
//
//	@Summary	Altera uma vaga
//	@Tags		jobs
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"ID da vaga"
//	@Param		body	body		dto.JobRequest	true	"Campos a alterar"
//	@Success	200		{object}	dto.JobResponse
//	@Router		/jobs/{id} [patch]
func (h *JobHandler) Update(c *gin.Context) {
	var req dto.JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), currentUser(c), c.Param("id"), req.ToInput())
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// Delete remove uma vaga
//
//	@Summary	Remove uma vaga
//	@Tags		jobs
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID da vaga"
//	@Success	204
//	@Router		/jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobService.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		dto.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Apply candidata o usuário à vaga
//
//	@Summary	Candidata-se a uma vaga
//	@Tags		jobs
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"ID da vaga"
//	@Param		body	body		dto.ApplyRequest	true	"Carta de apresentação"
//	@Success	201		{object}	dto.ApplicationResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/jobs/{id}/applications [post]
func (h *JobHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.jobService.Apply(c.Request.Context(), currentUser(c), c.Param("id"), req.CoverLetter)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

// ListApplications lista candidaturas da vaga (somente quem publicou)
//
//	@Summary	Candidaturas da vaga
//	@Tags		jobs
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID da vaga"
//	@Success	200	{array}	dto.ApplicationResponse
//	@Router		/jobs/{id}/applications [get]
func (h *JobHandler) ListApplications(c *gin.Context) {
	apps, err := h.jobService.ListApplications(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponses(apps))
}

// ListMyApplications lista as candidaturas do usuário
//
//	@Summary	Minhas candidaturas
//	@Tags		jobs
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	dto.ApplicationResponse
//	@Router		/me/applications [get]
func (h *JobHandler) ListMyApplications(c *gin.Context) {
	apps, err := h.jobService.ListMyApplications(c.Request.Context(), currentUser(c))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponses(apps))
}

// SetApplicationStatus altera o status de uma candidatura
//
//	@Summary	Altera o status da candidatura
//	@Tags		jobs
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string							true	"ID da candidatura"
//	@Param		body	body		dto.ApplicationStatusRequest	true	"Novo status"
//	@Success	200		{object}	dto.ApplicationResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/applications/{id}/status [put]
func (h *JobHandler) SetApplicationStatus(c *gin.Context) {
	var req dto.ApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.jobService.SetApplicationStatus(c.Request.Context(), currentUser(c), c.Param("id"), entities.ApplicationStatus(req.Status))
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}
