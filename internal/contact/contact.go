// Package contact builds the public "talk to us" links: a wa.me deep link
// with a pre-filled message and a QR code pointing at it.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/skip2/go-qrcode"
)

var ErrInvalidPhone = errors.New("phone number has no digits")

const (
	whatsAppBase       = "https://wa.me/"
	DefaultQRCodeSize  = 256
	maxQRCodeSize      = 1024
	DefaultWhatsAppMsg = "Olá! Gostaria de mais informações."
)

// Digits strips everything but 0-9 from phone.
func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// WhatsAppLink returns https://wa.me/<digits>?text=<message>. Spaces in the
// message are encoded as %20 so the link survives being pasted into apps
// that do not treat "+" as a space.
func WhatsAppLink(phone, message string) (string, error) {
	digits := Digits(phone)
	if digits == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	link := whatsAppBase + digits
	if message = strings.TrimSpace(message); message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link, nil
}

// QRCode encodes content as a PNG. Sizes outside (0, 1024] fall back to
// DefaultQRCodeSize.
func QRCode(content string, size int) ([]byte, error) {
	if size <= 0 || size > maxQRCodeSize {
		size = DefaultQRCodeSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
