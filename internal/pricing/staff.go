package pricing

import "github.com/shopspring/decimal"

// StaffTotal prices waiters: rate x hours x waiters plus tip x waiters.
// A-la-carte estimates and estimates without waiters cost nothing.
func StaffTotal(e Estimate, d Defaults) decimal.Decimal {
	if e.ALaCarte {
		return decimal.Zero
	}
	waiters := WaiterCount(e.Adults, e.ExtraWaiters)
	if waiters == 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(waiters))
	pay := HourlyRate(e, d).Mul(e.StaffHours).Mul(n)
	tips := TipPerWaiter(e, d).Mul(n)
	return Round2(pay.Add(tips))
}
