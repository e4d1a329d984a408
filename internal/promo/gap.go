package promo

// Shortfall returns how many more units must be claimed to reach the next
// qualification when qtyNeeded units make up one qualification and
// qtyClaimed have been credited so far. Landing exactly on a threshold counts
// that threshold as used, so a full qtyNeeded is required for the next one.
//
// qtyNeeded must be positive.
func Shortfall(qtyNeeded, qtyClaimed int64) int64 {
	switch {
	case qtyClaimed < qtyNeeded:
		return qtyNeeded - qtyClaimed
	case qtyClaimed == qtyNeeded:
		return qtyNeeded
	default:
		next := qtyClaimed/qtyNeeded + 1
		return next*qtyNeeded - qtyClaimed
	}
}
