package pricing

import "testing"

func TestExtrasTotal(t *testing.T) {
	tests := []struct {
		name   string
		adults int
		lines  []ExtraLine
		want   string
	}{
		{
			name:   "per person scales with guests",
			adults: 40,
			lines:  []ExtraLine{{ExtraID: "favors", Quantity: dec("1")}},
			want:   "200.00",
		},
		{
			name:   "per event ignores guests",
			adults: 40,
			lines:  []ExtraLine{{ExtraID: "popcorn", Quantity: dec("1")}},
			want:   "5.00",
		},
		{
			name:   "per event ignores zero guests",
			adults: 0,
			lines:  []ExtraLine{{ExtraID: "popcorn", Quantity: dec("1")}},
			want:   "5.00",
		},
		{
			name:   "quantity multiplies",
			adults: 40,
			lines:  []ExtraLine{{ExtraID: "favors", Quantity: dec("2")}, {ExtraID: "popcorn", Quantity: dec("1.5")}},
			want:   "407.50",
		},
		{
			name:   "override taken verbatim",
			adults: 40,
			lines:  []ExtraLine{{ExtraID: "projector", Quantity: dec("3"), OverridePrice: decPtr("123.45")}},
			want:   "123.45",
		},
		{
			name:   "unknown extra without override skipped",
			adults: 10,
			lines:  []ExtraLine{{ExtraID: "nope", Quantity: dec("1")}, {ExtraID: "popcorn", Quantity: dec("1")}},
			want:   "5.00",
		},
		{
			name: "no lines",
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Estimate{ID: "est", Adults: tt.adults, Lines: tt.lines}
			assertMoney(t, "ExtrasTotal", ExtrasTotal(e, testCatalog()), tt.want)
		})
	}
}
