package api

import (
	"net/http"
	"strings"

	"alcyxob/fit-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type UploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
	FileName  string `json:"fileName" binding:"required,max=255"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// RequestUploadURL godoc
// @Summary Get a presigned URL to upload course media
// @Description The client PUTs the file to uploadUrl and then confirms the upload.
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param file body UploadURLRequest true "File details"
// @Success 200 {object} service.UploadTicket
// @Failure 400 {object} ErrorResponse "Unsupported content type or media disabled"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/media/upload-url [post]
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	ticket, err := h.mediaService.RequestUploadURL(c.Request.Context(), caller, courseID,
		strings.TrimSpace(req.FileName), strings.TrimSpace(req.ContentType))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ConfirmUpload godoc
// @Summary Record an uploaded media object
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param upload body ConfirmUploadRequest true "Uploaded object"
// @Success 201 {object} domain.MediaUpload
// @Failure 400 {object} ErrorResponse "Object missing or outside the course"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Router /courses/{id}/media [post]
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindingError(c, err)
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}

	upload, err := h.mediaService.ConfirmUpload(c.Request.Context(), caller, courseID, service.UploadConfirmation{
		ObjectKey: strings.TrimSpace(req.ObjectKey),
		FileName:  strings.TrimSpace(req.FileName),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// GetDownloadURL godoc
// @Summary Get a presigned URL to download course media
// @Description Available to the course owner and enrolled users.
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param uploadId path string true "Upload ID"
// @Success 200 {object} DownloadURLResponse
// @Failure 403 {object} ErrorResponse "Neither owner nor enrolled"
// @Failure 404 {object} ErrorResponse "Upload not found"
// @Router /courses/{id}/media/{uploadId} [get]
func (h *MediaHandler) GetDownloadURL(c *gin.Context) {
	courseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	uploadID, ok := pathObjectID(c, "uploadId")
	if !ok {
		return
	}
	caller, ok := identityFromContext(c)
	if !ok {
		return
	}
	url, err := h.mediaService.DownloadURL(c.Request.Context(), caller, courseID, uploadID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: url})
}
