package pricing

// BaseWaiterCount returns the staffing tier for an adult guest count:
//
//	0        -> 0
//	1-50     -> 2
//	51-75    -> 3
//	76-100   -> 4
//	above    -> 4 + ceil((guests-100)/25)
func BaseWaiterCount(guests int) int {
	switch {
	case guests <= 0:
		return 0
	case guests <= 50:
		return 2
	case guests <= 75:
		return 3
	case guests <= 100:
		return 4
	}
	overflow := guests - 100
	return 4 + (overflow+24)/25
}

// WaiterCount is the tier for guests plus any manually requested waiters.
func WaiterCount(guests, extraWaiters int) int {
	return BaseWaiterCount(guests) + nonNegative(extraWaiters)
}
