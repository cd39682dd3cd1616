package dto

import "erpchat/internal/domain/catalog"

// VendorResponse is the read-only vendor view.
type VendorResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	CEO    string `json:"ceo,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// FromVendor creates response DTO from a catalog record.
func FromVendor(v catalog.Vendor) VendorResponse {
	return VendorResponse{Code: v.Code, Name: v.Name, CEO: v.CEO, Phone: v.Phone, Mobile: v.Mobile}
}

// ProductResponse is the read-only product view.
// Price is surfaced both as the ERP's raw decimal string and parsed won.
type ProductResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Price       string `json:"price"`
	PriceAmount int64  `json:"priceAmount"`
}

// FromProduct creates response DTO from a catalog record.
func FromProduct(p catalog.Product) ProductResponse {
	amount, _ := p.PriceAmount()
	return ProductResponse{
		Code:        p.Code,
		Name:        p.Name,
		Type:        p.Type,
		Price:       p.Price,
		PriceAmount: amount,
	}
}

// WarehouseResponse is the read-only warehouse view.
type WarehouseResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	IsActive bool   `json:"isActive"`
}

// FromWarehouse creates response DTO from a catalog record.
func FromWarehouse(w catalog.Warehouse) WarehouseResponse {
	return WarehouseResponse{Code: w.Code, Name: w.Name, Type: w.Type, IsActive: w.IsActive}
}
