package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

type ImportHandler struct {
	svc *service.ImportService
}

func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Upload POST /import
//
// Takes a multipart workbook, validates every sheet and either commits the
// whole batch or reports all collected errors without writing anything.
func (h *ImportHandler) Upload(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "upload an .xlsx file under the \"file\" field")
		return
	}
	defer file.Close()

	result, err := h.svc.ImportWorkbook(c.Request.Context(), file)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, result)
}

// DownloadTemplate GET /import/template
func (h *ImportHandler) DownloadTemplate(c *gin.Context) {
	f, err := h.svc.Template()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"Import_Template.xlsx\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write template: "+err.Error())
	}
}
