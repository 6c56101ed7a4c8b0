package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder turns a validated code into a scannable image.
type Encoder interface {
	// EncodePNG renders text as a QR code PNG.
	EncodePNG(text string) ([]byte, error)
}

// encoder implements Encoder using skip2/go-qrcode
type encoder struct {
	size int // output edge length in pixels
}

// NewEncoder creates a new QR encoder.
func NewEncoder() Encoder {
	return &encoder{size: 512}
}

// EncodePNG renders the text as a medium-redundancy QR PNG
func (e *encoder) EncodePNG(text string) ([]byte, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, e.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}
	return png, nil
}
