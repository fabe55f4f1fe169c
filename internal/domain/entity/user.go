package entity

// User representa un usuario del sistema. Lo crea el proceso administrativo (estoquectl).
type User struct {
	ID           int64
	Name         string
	Login        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
}

// Identity identidad de sesión: lo que el autenticador entrega y el middleware propaga.
type Identity struct {
	UserID      int64
	DisplayName string
}
