package models

// PersonGroup holds every ownership record of one person, in encounter order.
type PersonGroup struct {
	// Name is the person name shared by all records.
	Name string `json:"name"`
	// Records is never empty.
	Records []OwnershipRecord `json:"records"`
}

// TotalShare returns the sum of shares across the group.
func (g PersonGroup) TotalShare() float64 {
	var sum float64
	for _, r := range g.Records {
		sum += r.Share
	}
	return sum
}
