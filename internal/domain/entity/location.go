package entity

import "time"

// Tipos de ubicación del directorio.
const (
	LocationTypePhysical = "physical" // bodega, estantería, zona
	LocationTypePerson   = "person"   // una persona puede "tener" stock asignado
)

// Location es una entrada del directorio de ubicaciones. Este servicio la
// consume solo en lectura.
type Location struct {
	ID        string
	Name      string
	Area      string
	Type      string // physical | person
	CreatedAt time.Time
}
