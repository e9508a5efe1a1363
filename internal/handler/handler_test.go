package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/jmaalouf1/pm-tracker/internal/service"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repos := repository.NewRepositories(db)
	logger := zap.NewNop()
	termSvc := service.NewTermService(db, repos.Project, repos.Term, repos.Lookup, logger)
	templateSvc := service.NewTemplateService(repos.Template, repos.Project)
	importSvc := service.NewImportService(db, repos.Customer, repos.Project, repos.Lookup, logger)
	dashSvc := service.NewDashboardService(db, nil, logger)

	termHandler := NewTermHandler(termSvc, templateSvc)
	importHandler := NewImportHandler(importSvc)
	dashHandler := NewDashboardHandler(dashSvc)
	projectHandler := NewProjectHandler(service.NewProjectService(repos.Project), termSvc)

	router := gin.New()
	router.POST("/projects", projectHandler.Create)
	router.GET("/projects/:id/terms", termHandler.List)
	router.PUT("/projects/:id/terms", termHandler.Replace)
	router.GET("/terms", termHandler.Search)
	router.POST("/import", importHandler.Upload)
	router.GET("/import/template", importHandler.DownloadTemplate)
	router.GET("/dashboard/summary", dashHandler.Summary)

	return &testEnv{db: db, router: router}
}

func (e *testEnv) seedProject(t *testing.T, name, value string) *entity.Project {
	t.Helper()
	customer := &entity.Customer{ID: uuid.New().String(), Name: name + " customer", IsActive: true}
	if err := e.db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	v, _ := decimal.NewFromString(value)
	project := &entity.Project{
		ID:            uuid.New().String(),
		Name:          name,
		CustomerID:    customer.ID,
		ContractValue: v,
		Currency:      "SAR",
	}
	if err := e.db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestReplaceTermsEndpoint(t *testing.T) {
	env := setupEnv(t)
	project := env.seedProject(t, "Rollout", "1000.00")

	w := env.do(t, http.MethodPut, "/projects/"+project.ID+"/terms", `[
		{"description": "Advance", "percent": "30"},
		{"description": "Delivery", "percent": "70"}
	]`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/projects/"+project.ID+"/terms", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	resp := decodeResponse(t, w)
	items, ok := resp.Data.([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("terms data = %v, want 2 rows", resp.Data)
	}
}

func TestReplaceTermsEndpointBadSum(t *testing.T) {
	env := setupEnv(t)
	project := env.seedProject(t, "Rollout", "1000.00")

	w := env.do(t, http.MethodPut, "/projects/"+project.ID+"/terms", `[
		{"description": "Half", "percent": "50"}
	]`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body = %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if resp.Code != 42200 {
		t.Errorf("code = %d, want 42200", resp.Code)
	}
}

func TestReplaceTermsEndpointRedactsStorageFailure(t *testing.T) {
	env := setupEnv(t)
	project := env.seedProject(t, "Rollout", "1000.00")

	cbErr := env.db.Callback().Create().Before("gorm:create").Register("fail_marked_term", func(tx *gorm.DB) {
		if term, ok := tx.Statement.Dest.(*entity.ProjectTerm); ok && term.Description == "Poison" {
			tx.AddError(errors.New("disk full at /var/lib/postgresql"))
		}
	})
	if cbErr != nil {
		t.Fatalf("register callback: %v", cbErr)
	}

	w := env.do(t, http.MethodPut, "/projects/"+project.ID+"/terms", `[
		{"description": "Advance", "percent": "30"},
		{"description": "Poison", "percent": "70"}
	]`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if resp.Code != 50000 {
		t.Errorf("code = %d, want 50000", resp.Code)
	}
	if strings.Contains(w.Body.String(), "disk full") {
		t.Errorf("response leaks the storage cause: %s", w.Body.String())
	}
	if resp.Message != "internal storage error" {
		t.Errorf("message = %q, want the opaque storage message", resp.Message)
	}
}

func TestReplaceTermsEndpointUnknownProject(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPut, "/projects/nope/terms", `[
		{"description": "All", "percent": "100"}
	]`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCreateProjectEndpointRequiresName(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/projects", `{"customer_id": "x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestImportEndpoint(t *testing.T) {
	env := setupEnv(t)

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", service.SheetCustomers)
	f.SetCellValue(service.SheetCustomers, "A1", "customer_name*")
	f.SetCellValue(service.SheetCustomers, "A2", "Acme")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "import.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write(buf.Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var count int64
	env.db.Model(&entity.Customer{}).Count(&count)
	if count != 1 {
		t.Errorf("customers = %d, want 1", count)
	}
}

func TestImportEndpointWithoutFile(t *testing.T) {
	env := setupEnv(t)
	w := env.do(t, http.MethodPost, "/import", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestImportTemplateEndpoint(t *testing.T) {
	env := setupEnv(t)
	w := env.do(t, http.MethodGet, "/import/template", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q, want xlsx", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty template body")
	}
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	env := setupEnv(t)
	env.seedProject(t, "Rollout", "1000.00")

	w := env.do(t, http.MethodGet, "/dashboard/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("summary data = %T", resp.Data)
	}
	if data["total_projects"] != float64(1) {
		t.Errorf("total_projects = %v, want 1", data["total_projects"])
	}
}
