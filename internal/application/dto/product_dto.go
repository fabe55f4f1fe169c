package dto

// ProductRequest entrada para crear o actualizar un producto (sin cantidad en stock).
type ProductRequest struct {
	Name         string `json:"name" form:"nome"`
	CategoryID   int64  `json:"category_id" form:"categoria"`
	Description  string `json:"description" form:"descricao"`
	MinimumStock int    `json:"minimum_stock" form:"estoque_minimo"`
	Location     string `json:"location" form:"localizacao"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
	Location     string `json:"location"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	BelowMinimum bool   `json:"below_minimum"`
}

// CategoryRequest entrada para crear una categoría.
type CategoryRequest struct {
	Name string `json:"name" form:"nome"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CatalogResponse listado de productos más las categorías para los formularios.
type CatalogResponse struct {
	Search     string             `json:"search"`
	Products   []ProductResponse  `json:"products"`
	Categories []CategoryResponse `json:"categories"`
}

// ProductImportRow fila de importación masiva (CLI). La categoría se resuelve por nombre.
type ProductImportRow struct {
	Name         string
	Description  string
	CategoryName string
	MinimumStock int
	Location     string
}
