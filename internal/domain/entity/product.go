package entity

// Product representa un producto del catálogo.
// Quantity sólo cambia vía movimientos (StockRepository); el catálogo nunca la escribe.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Quantity     int
	MinimumStock int
	Location     string
	CategoryID   int64
	CategoryName string // sólo en lecturas con JOIN
}

// BelowMinimum indica si el stock está estrictamente por debajo del mínimo.
func (p *Product) BelowMinimum() bool {
	return p.Quantity < p.MinimumStock
}
