package entity

import "time"

// Product es el registro de catálogo del que se toman los snapshots de los
// ítems al crear un movimiento masivo. Consumido solo en lectura.
type Product struct {
	ID        string
	SKU       string
	Name      string
	ImageURL  string
	CreatedAt time.Time
}
