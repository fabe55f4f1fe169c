package dto

import (
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID int64  `json:"product_id" form:"produto_id"`
	Type      string `json:"type" form:"tipo_movimento"`
	Quantity  int    `json:"quantity" form:"quantidade"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
}

// RegisterMovementResponse resultado del movimiento con aviso de stock bajo opcional.
type RegisterMovementResponse struct {
	Movement    MovementResponse        `json:"movement"`
	NewQuantity int                     `json:"new_quantity"`
	Warning     *entity.LowStockWarning `json:"warning,omitempty"`
	Notices     []Notice                `json:"notices"`
}

// StockLevelResponse fila de la vista de gestión de stock.
type StockLevelResponse struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
	BelowMinimum bool   `json:"below_minimum"`
}

// HistoryEntryResponse fila del histórico de movimientos.
type HistoryEntryResponse struct {
	MovementID  int64     `json:"movement_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Actor       string    `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
}

// HistoryResponse histórico completo (sin paginación).
type HistoryResponse struct {
	Total   int                    `json:"total"`
	Entries []HistoryEntryResponse `json:"entries"`
}

// ReplenishmentSuggestion producto bajo el mínimo con la entrada sugerida para reponerlo.
type ReplenishmentSuggestion struct {
	Priority       int    `json:"priority"`
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	MinimumStock   int    `json:"minimum_stock"`
	SuggestedEntry int    `json:"suggested_entry"`
}
