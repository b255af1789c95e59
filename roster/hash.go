package roster

// idOffset keeps hashed ids clear of the bootstrap users (1 and 2).
const idOffset = 1000

// HashEmail derives a stable user id from an email address, so re-adding
// the same signee yields the same identity even across independent
// additions. 32-bit rolling hash (h*31 + c) with wraparound, absolute
// value, plus the offset.
func HashEmail(email string) int {
	var h int32
	for _, c := range email {
		h = (h << 5) - h + int32(c)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v) + idOffset
}
