package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPlatformFee(t *testing.T) {
	tests := []struct {
		name    string
		gross   string
		percent string
		want    string
	}{
		{name: "Ten percent of one hundred", gross: "100.00", percent: "10", want: "10.00"},
		{name: "Courier fee on flat delivery fee", gross: "5.00", percent: "20", want: "1.00"},
		{name: "Rounds half up", gross: "33.35", percent: "10", want: "3.34"},
		{name: "Rounds half up at midpoint", gross: "0.05", percent: "10", want: "0.01"},
		{name: "Zero gross yields zero", gross: "0", percent: "10", want: "0"},
		{name: "Negative gross yields zero", gross: "-50.00", percent: "10", want: "0"},
		{name: "Zero percent yields zero", gross: "100.00", percent: "0", want: "0"},
		{name: "Negative percent yields zero", gross: "100.00", percent: "-5", want: "0"},
		{name: "Absent inputs yield zero", gross: "0", percent: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlatformFee(dec(tt.gross), dec(tt.percent))
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNetValue(t *testing.T) {
	tests := []struct {
		name  string
		gross string
		fee   string
		want  string
	}{
		{name: "Simple split", gross: "100.00", fee: "10.00", want: "90.00"},
		{name: "Zero fee keeps gross", gross: "42.50", fee: "0", want: "42.50"},
		{name: "Fee exceeding gross clamps to zero", gross: "5.00", fee: "7.50", want: "0"},
		{name: "Fee equal to gross is zero net", gross: "5.00", fee: "5.00", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetValue(dec(tt.gross), dec(tt.fee))
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNetValueNeverNegative(t *testing.T) {
	grosses := []string{"0", "0.01", "1.00", "49.99", "100.00"}
	percents := []string{"0", "5", "10", "50", "100", "150"}

	for _, g := range grosses {
		for _, p := range percents {
			fee := PlatformFee(dec(g), dec(p))
			net := NetValue(dec(g), fee)
			assert.False(t, net.IsNegative(), "net for gross=%s percent=%s is negative: %s", g, p, net)
		}
	}
}
