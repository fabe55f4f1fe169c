package entity

import "math"

// Límites de cantidades. Las columnas son enteros de 64 bits en ambos motores.
const (
	// MaxQuantity máximo por movimiento y para el stock mínimo de un producto.
	MaxQuantity = math.MaxInt32
	// MaxStockQuantity tope del stock acumulado de un producto.
	MaxStockQuantity = math.MaxInt
)

// StockLevel estado de stock de un producto tal como lo lee y escribe el libro de movimientos.
type StockLevel struct {
	ProductID    int64
	ProductName  string
	Quantity     int
	MinimumStock int
}

// BelowMinimum indica si el stock está estrictamente por debajo del mínimo (igual no cuenta).
func (s *StockLevel) BelowMinimum() bool {
	return s.Quantity < s.MinimumStock
}

// LowStockWarning aviso informativo emitido tras confirmar un movimiento que deja el stock bajo el mínimo.
type LowStockWarning struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
}

// NewLowStockWarning devuelve el aviso si el nivel está bajo el mínimo, nil en otro caso.
func NewLowStockWarning(level *StockLevel) *LowStockWarning {
	if level == nil || !level.BelowMinimum() {
		return nil
	}
	return &LowStockWarning{
		ProductID:    level.ProductID,
		ProductName:  level.ProductName,
		Quantity:     level.Quantity,
		MinimumStock: level.MinimumStock,
	}
}

// Message texto para el usuario.
func (w *LowStockWarning) Message() string {
	return "Atención: el producto \"" + w.ProductName + "\" está por debajo del stock mínimo! (Cant: " +
		itoa(w.Quantity) + ", Mín: " + itoa(w.MinimumStock) + ")"
}
