package ward

// Ward is a hospital floor or unit. Capacity bounds bed numbers; it is not an occupancy counter.
type Ward struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// ValidateBed reports whether bed is a valid bed number in this ward (1..Capacity).
func (w Ward) ValidateBed(bed int) error {
	if bed < 1 || bed > w.Capacity {
		return ErrInvalidBedNumber
	}
	return nil
}

type RegisterWardCommand struct {
	ID       int
	Name     string
	Capacity int
}
