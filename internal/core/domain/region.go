package domain

// Region is an origin or destination area referenced by prices.
type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
