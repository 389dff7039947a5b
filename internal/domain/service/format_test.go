package service_test

import (
	"testing"

	"smartMatchApp/internal/domain/service"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{950.5, "950.5"},
		{1000, "1k"},
		{1500, "1.5k"},
		{999999, "1000k"},
		{1000000, "1M"},
		{2502000, "2.5M"},
		{-1500, "-1.5k"},
		{-2500000, "-2.5M"},
		{-42, "-42"},
	}
	for _, c := range cases {
		if got := service.FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
