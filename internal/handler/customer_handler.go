package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
	"github.com/jmaalouf1/pm-tracker/internal/service"
)

type CustomerHandler struct {
	svc *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.CustomerListParams{
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    pageSize,
	}
	customers, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, ListResponse{Items: customers, Pagination: NewPagination(page, pageSize, total)})
}

func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, customer)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	customer, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var req service.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, customer)
}

func (h *CustomerHandler) AddContact(c *gin.Context) {
	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	contact, err := h.svc.AddContact(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, contact)
}

func (h *CustomerHandler) UpdateContact(c *gin.Context) {
	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	contact, err := h.svc.UpdateContact(c.Request.Context(), c.Param("id"), c.Param("contactId"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, contact)
}

func (h *CustomerHandler) DeleteContact(c *gin.Context) {
	if err := h.svc.DeleteContact(c.Request.Context(), c.Param("id"), c.Param("contactId")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
