package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/repository"
	"github.com/solmercado/tienda-api/internal/service"
)

// ListProducts pages the catalog for the back office, including items with
// zero stock.
func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductListFilter{
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
		Search:    c.Query("q"),
		WithBrand: true,
	}
	if brandID := queryInt(c, "id_marca", 0); brandID > 0 {
		filter.BrandID = uint(brandID)
	}

	products, total, err := h.ProductService.ListProducts(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(filter.Page, filter.PageSize, total))
}

func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetProduct(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	product, err := h.ProductService.CreateProduct(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	product, err := h.ProductService.UpdateProduct(productID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteProduct(productID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
