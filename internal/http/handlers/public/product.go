package public

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/repository"
)

// ListProducts pages through the public catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductListFilter{
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
		Search:    c.Query("q"),
		InStock:   c.Query("in_stock") == "true",
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

// GetProduct returns one product with its brand.
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

// ListBrands returns the brand catalog.
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.BrandService.ListBrands(c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, brands)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
