package model

// Sweet is a catalog item. Quantity never goes below zero; mutations that
// would make it negative are rejected before any write.
type Sweet struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
