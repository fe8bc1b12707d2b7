package entity

import "time"

// Customer representa un cliente registrado (destino del CustomerID de los
// bills online).
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
