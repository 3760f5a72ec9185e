package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStruct(t *testing.T) {
	type line struct {
		Product  string `validate:"required"`
		Quantity int    `validate:"min=1"`
	}
	type order struct {
		Items []line `validate:"required,min=1,dive"`
	}

	assert.NoError(t, Struct(order{Items: []line{{Product: "p", Quantity: 1}}}))

	err := Struct(order{Items: []line{{Quantity: 0}}})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Product: required")
		assert.Contains(t, err.Error(), "Quantity: min=1")
	}
	assert.Error(t, Struct(order{}))
}

func TestMaxBytesCountsUTF8(t *testing.T) {
	type secret struct {
		Password string `validate:"required,maxbytes=72"`
	}
	assert.NoError(t, Struct(secret{Password: strings.Repeat("a", 72)}))
	assert.NoError(t, Struct(secret{Password: strings.Repeat("é", 36)}))

	err := Struct(secret{Password: strings.Repeat("é", 60)})
	if assert.Error(t, err, "60 runes but 120 bytes") {
		assert.Contains(t, err.Error(), "maxbytes=72")
	}
}

func TestEmailTagAcceptsNonASCII(t *testing.T) {
	type login struct {
		Email string `validate:"required,email"`
	}
	assert.NoError(t, Struct(login{Email: "josé@example.test"}))
	assert.Error(t, Struct(login{Email: "no-at-sign"}))
}

func TestID(t *testing.T) {
	for in, ok := range map[string]bool{
		"8c0f7f3e-1c1b-4e55-9a47-b2b1f3f0d6a1": true,
		"abc_DEF-123":                          true,
		"":                                     false,
		"../etc":                               false,
		"a b":                                  false,
	} {
		_, got := ID(in)
		assert.Equal(t, ok, got, in)
	}
}

func TestCountAndPage(t *testing.T) {
	n, ok := Count("3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = Count("-1")
	assert.False(t, ok)
	_, ok = Count("x")
	assert.False(t, ok)

	p, size := Page("", "")
	assert.Equal(t, 1, p)
	assert.Zero(t, size)
	p, size = Page("0", "500")
	assert.Equal(t, 1, p)
	assert.Equal(t, 100, size)
	p, size = Page("4", "25")
	assert.Equal(t, 4, p)
	assert.Equal(t, 25, size)
}

func TestImageType(t *testing.T) {
	for mime, want := range map[string]string{"image/png": "png", "IMAGE/JPEG": "jpeg", "image/jpg": "jpg"} {
		ext, ok := ImageType(mime)
		assert.True(t, ok, mime)
		assert.Equal(t, want, ext)
	}
	for _, mime := range []string{"image/gif", "text/html", ""} {
		_, ok := ImageType(mime)
		assert.False(t, ok, mime)
	}
}
