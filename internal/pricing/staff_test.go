package pricing

import "testing"

func TestStaffTotal(t *testing.T) {
	defaults := Defaults{HourlyRate: decPtr("50"), TipPerWaiter: decPtr("80")}

	tests := []struct {
		name     string
		estimate Estimate
		defaults Defaults
		want     string
	}{
		{
			name:     "tenant defaults",
			estimate: Estimate{Adults: 60, StaffHours: dec("6")},
			defaults: defaults,
			want:     "1140.00",
		},
		{
			name:     "estimate rate override",
			estimate: Estimate{Adults: 60, StaffHours: dec("6"), HourlyRate: decPtr("40")},
			defaults: defaults,
			want:     "960.00",
		},
		{
			name:     "extra waiters added to tier",
			estimate: Estimate{Adults: 60, StaffHours: dec("6"), ExtraWaiters: 1},
			defaults: defaults,
			want:     "1520.00",
		},
		{
			name:     "missing rates default to zero",
			estimate: Estimate{Adults: 60, StaffHours: dec("5.5")},
			defaults: Defaults{TipPerWaiter: decPtr("80")},
			want:     "240.00",
		},
		{
			name:     "no guests no waiters",
			estimate: Estimate{Adults: 0, StaffHours: dec("6")},
			defaults: defaults,
			want:     "0",
		},
		{
			name:     "a la carte",
			estimate: Estimate{Adults: 60, StaffHours: dec("6"), ExtraWaiters: 3, ALaCarte: true},
			defaults: defaults,
			want:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, "StaffTotal", StaffTotal(tt.estimate, tt.defaults), tt.want)
		})
	}
}
