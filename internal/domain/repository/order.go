package repository

// OrderAssignment asigna un valor de orden a un registro (producto o categoría) en una escritura masiva.
type OrderAssignment struct {
	ID    string
	Order int
}
