package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

// Handlers bundles every HTTP handler.
type Handlers struct {
	Auth      *AuthHandler
	Customer  *CustomerHandler
	Project   *ProjectHandler
	Term      *TermHandler
	Template  *TemplateHandler
	Import    *ImportHandler
	Dashboard *DashboardHandler
	Lookup    *LookupHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(svc.Auth),
		Customer:  NewCustomerHandler(svc.Customer),
		Project:   NewProjectHandler(svc.Project, svc.Term),
		Term:      NewTermHandler(svc.Term, svc.Template),
		Template:  NewTemplateHandler(svc.Template),
		Import:    NewImportHandler(svc.Import),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Lookup:    NewLookupHandler(svc.Lookup),
	}
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps paginated collections.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination carries paging metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) *Pagination {
	pages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		pages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{Code: 0, Message: "success", Data: data})
}

// Error maps an application code to its HTTP status by its first three digits.
func Error(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{Code: code, Message: message, Data: data})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message, nil)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message, nil)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message, nil)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message, nil)
}

// Fail translates service errors into the response envelope. Validation
// failures carry their row and per-project details in the data field so the
// client can render them next to the offending inputs.
func Fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		Error(c, 42200, verr.Message, gin.H{"rows": verr.Rows, "per_project": verr.PerProject})
		return
	}
	var nferr *service.NotFoundError
	if errors.As(err, &nferr) {
		NotFound(c, nferr.Error())
		return
	}
	var cerr *service.ConflictError
	if errors.As(err, &cerr) {
		Conflict(c, cerr.Error())
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		Unauthorized(c, "invalid credentials")
		return
	}
	// Storage faults stay opaque to the client. The wrapped cause is kept on
	// the gin context for server-side logging only.
	var serr *service.StorageError
	if errors.As(err, &serr) {
		_ = c.Error(err)
		InternalError(c, "internal storage error")
		return
	}
	InternalError(c, err.Error())
}

// GetUserID reads the authenticated user id set by the JWT middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination reads page/page_size query params with sane bounds.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
