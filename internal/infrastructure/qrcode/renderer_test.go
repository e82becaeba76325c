package qrcode_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trolley-api/internal/infrastructure/qrcode"
)

func TestRenderer_PNG(t *testing.T) {
	data, err := qrcode.NewRenderer().PNG("7f0c1d7e-3a55-4d1b-9c61-0f6b0a0c2f11", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}
