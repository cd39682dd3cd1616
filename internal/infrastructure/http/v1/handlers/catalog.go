package handlers

import (
	"github.com/gin-gonic/gin"

	"erpchat/internal/core/apperror"
	"erpchat/internal/domain/catalog"
	"erpchat/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves read-only views over the cached reference catalogs.
type CatalogHandler struct {
	*BaseHandler
	catalogs *catalog.Service
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(base *BaseHandler, catalogs *catalog.Service) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, catalogs: catalogs}
}

// ListVendors returns the cached vendor catalog.
// GET /api/v1/catalog/vendors
func (h *CatalogHandler) ListVendors(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	items := make([]dto.VendorResponse, 0, len(snap.Vendors))
	for _, v := range snap.Vendors {
		items = append(items, dto.FromVendor(v))
	}
	h.List(c, items, len(items))
}

// ListProducts returns the cached product catalog.
// GET /api/v1/catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	items := make([]dto.ProductResponse, 0, len(snap.Products))
	for _, p := range snap.Products {
		items = append(items, dto.FromProduct(p))
	}
	h.List(c, items, len(items))
}

// ListWarehouses returns the cached warehouse catalog.
// GET /api/v1/catalog/warehouses
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	items := make([]dto.WarehouseResponse, 0, len(snap.Warehouses))
	for _, w := range snap.Warehouses {
		items = append(items, dto.FromWarehouse(w))
	}
	h.List(c, items, len(items))
}

// Refresh reloads the catalogs from the ERP on demand.
// POST /api/v1/catalog/refresh
func (h *CatalogHandler) Refresh(c *gin.Context) {
	if err := h.catalogs.Refresh(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "catalog refreshed")
}

func (h *CatalogHandler) snapshot(c *gin.Context) (*catalog.Snapshot, bool) {
	snap := h.catalogs.Snapshot()
	if snap == nil {
		h.Error(c, apperror.NewCatalogUnavailable("cache", nil))
		return nil, false
	}
	return snap, true
}
