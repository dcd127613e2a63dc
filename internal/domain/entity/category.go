package entity

import "time"

// Category agrupa productos. ProductIDs conserva el orden de alta de los productos que posee.
type Category struct {
	ID         string
	Name       string
	ImageRef   string // URL del asset; vacío si no tiene imagen
	Comment    string
	ProductIDs []string
	Order      int // secuencia de despliegue, única entre categorías
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
