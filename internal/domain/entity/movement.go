package entity

import (
	"strconv"
	"strings"
	"time"
)

// MovementType dirección de un movimiento de stock. Los valores son los persistidos en movimento.tipo.
type MovementType string

// Tipos de movimiento.
const (
	MovementTypeIn  MovementType = "entrada"
	MovementTypeOut MovementType = "saida"
)

// ParseMovementType acepta el valor persistido y alias en inglés.
func ParseMovementType(s string) (MovementType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "in", "inbound":
		return MovementTypeIn, true
	case "saida", "saída", "salida", "out", "outbound":
		return MovementTypeOut, true
	}
	return "", false
}

// Sign +1 para entradas, -1 para salidas.
func (t MovementType) Sign() int {
	if t == MovementTypeOut {
		return -1
	}
	return 1
}

// Movement registro inmutable de un cambio de stock. Sólo lo crea el libro de movimientos.
type Movement struct {
	ID        int64
	Type      MovementType
	Quantity  int // siempre positivo; la dirección la da Type
	Timestamp time.Time
	ProductID int64
	UserID    int64
}

// HistoryEntry proyección de sólo lectura del histórico (movimiento + nombres).
type HistoryEntry struct {
	MovementID  int64
	ProductName string
	Type        MovementType
	Quantity    int
	Actor       string
	Timestamp   time.Time
}

func itoa(n int) string { return strconv.Itoa(n) }
