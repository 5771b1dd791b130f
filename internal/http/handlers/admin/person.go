package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/repository"
	"github.com/solmercado/tienda-api/internal/service"
)

func (h *Handler) ListPersons(c *gin.Context) {
	filter := repository.PersonListFilter{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
		Search:   c.Query("q"),
		Role:     c.Query("rol"),
	}
	persons, total, err := h.PersonService.ListPersons(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, persons, response.NewPagination(filter.Page, filter.PageSize, total))
}

func (h *Handler) GetPerson(c *gin.Context) {
	personID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	person, err := h.PersonService.GetPerson(personID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, person)
}

func (h *Handler) CreatePerson(c *gin.Context) {
	var req service.CreatePersonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	person, err := h.PersonService.CreatePerson(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, person)
}

func (h *Handler) UpdatePerson(c *gin.Context) {
	personID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePersonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	person, err := h.PersonService.UpdatePerson(personID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, person)
}

func (h *Handler) DeletePerson(c *gin.Context) {
	personID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.PersonService.DeletePerson(personID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
