package http

import (
	stdErrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// multipartOverhead cobre cabeçalhos e boundaries do formulário
const multipartOverhead = 64 << 10

// UploadHandler lida com envio de imagens
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler cria um novo UploadHandler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload recebe uma imagem no campo "file"
//
//	@Summary	Envia imagem
//	@Tags		uploads
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		file	formData	file	true	"Imagem (jpeg, png, webp ou gif)"
//	@Success	201		{object}	dto.UploadResponse
//	@Failure	413		{object}	dto.ErrorResponse
//	@Failure	415		{object}	dto.ErrorResponse
//	@Router		/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadService.MaxBytes()+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			dto.RespondError(c, errors.ErrFileTooLarge)
			return
		}
		dto.RespondError(c, errors.Wrap(errors.ErrInvalidInput, "missing file field"))
		return
	}

	file, err := fh.Open()
	if err != nil {
		dto.RespondError(c, err)
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), currentUser(c).ID, file, fh.Size)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUploadResponse(result))
}

// Presign gera uma URL para upload direto ao storage
//
//	@Summary	URL de upload direto
//	@Tags		uploads
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.PresignRequest	true	"Arquivo"
//	@Success	200		{object}	dto.PresignResponse
//	@Failure	503		{object}	dto.ErrorResponse
//	@Router		/uploads/presign [post]
func (h *UploadHandler) Presign(c *gin.Context) {
	var req dto.PresignRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.uploadService.PresignUpload(c.Request.Context(), currentUser(c).ID, req.Filename, req.ContentType)
	if err != nil {
		dto.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPresignResponse(result))
}
