package contact

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		message string
		want    string
	}{
		{"plain digits", "5511999999999", "", "https://wa.me/5511999999999"},
		{"formatted number", "+55 (11) 99999-9999", "", "https://wa.me/5511999999999"},
		{"message is escaped", "5511999999999", "Olá, quero agendar", "https://wa.me/5511999999999?text=Ol%C3%A1%2C%20quero%20agendar"},
		{"blank message is omitted", "5511999999999", "   ", "https://wa.me/5511999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WhatsAppLink(tt.phone, tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("no digits", func(t *testing.T) {
		_, err := WhatsAppLink("n/a", "oi")
		assert.True(t, errors.Is(err, ErrInvalidPhone))
	})
}

func TestQRCode(t *testing.T) {
	png, err := QRCode("https://wa.me/5511999999999", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
