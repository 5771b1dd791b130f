package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/service"
)

func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.BrandService.ListBrands(c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, brands)
}

func (h *Handler) GetBrand(c *gin.Context) {
	brandID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	brand, err := h.BrandService.GetBrand(brandID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, brand)
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var req service.CreateBrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	brand, err := h.BrandService.CreateBrand(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, brand)
}

func (h *Handler) UpdateBrand(c *gin.Context) {
	brandID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateBrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	brand, err := h.BrandService.UpdateBrand(brandID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, brand)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	brandID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.BrandService.DeleteBrand(brandID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
