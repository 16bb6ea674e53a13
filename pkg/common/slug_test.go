package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Widget", "widget"},
		{"Crème Brûlée Kit", "creme-brulee-kit"},
		{"  USB-C  Cable (2m) ", "usb-c-cable-2m"},
		{"100% Cotton T-Shirt", "100-cotton-t-shirt"},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name), "name=%q", tc.name)
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Bergamot & Oud Candle"), Slugify("Bergamot & Oud Candle"))
}
