package model

// Warehouse is a physical storage location for boards. At most one warehouse
// is central; it is the default destination for newly received stock.
// Warehouses are never deleted (items reference them by id indefinitely).
type Warehouse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	IsCentral CellBool `json:"isCentral"`
	Location  string   `json:"location"`
}
