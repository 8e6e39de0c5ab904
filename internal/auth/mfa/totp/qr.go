package totp

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"strings"

	"github.com/boombuler/barcode/qr"

	"github.com/A-ndrey/spdesk/internal/failure"
)

const (
	qrQuietZone = 4
	qrMinScale  = 8
	qrMinSize   = 200

	qrDark  = "#000000"
	qrLight = "#ffffff"

	svgDataURIPrefix = "data:image/svg+xml;base64,"
)

// QRCode renders the provisioning URI for sharedSecret as an SVG QR code and
// returns it as a base64 data URI that can be used directly as an image src.
func (c Config) QRCode(sharedSecret, account string) (string, error) {
	uri, err := c.ProvisioningURI(sharedSecret, account)
	if err != nil {
		return "", err
	}

	code, err := qr.Encode(uri, qr.M, qr.Auto)
	if err != nil {
		return "", failure.Crypto("totp.QRCode", err)
	}

	bounds := code.Bounds()
	modules := bounds.Dx()

	svg := renderSVG(modules, func(x, y int) bool {
		return isDark(code.At(bounds.Min.X+x, bounds.Min.Y+y))
	})

	return svgDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(svg)), nil
}

func renderSVG(modules int, dark func(x, y int) bool) string {
	scale := qrMinScale
	for (modules+2*qrQuietZone)*scale < qrMinSize {
		scale++
	}
	size := (modules + 2*qrQuietZone) * scale

	var path strings.Builder
	for y := 0; y < modules; y++ {
		for x := 0; x < modules; x++ {
			if !dark(x, y) {
				continue
			}
			fmt.Fprintf(&path, "M%d %dh%dv%dh-%dz", (x+qrQuietZone)*scale, (y+qrQuietZone)*scale, scale, scale, scale)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size, size, size)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, size, size, qrLight)
	fmt.Fprintf(&b, `<path fill="%s" d="%s"/>`, qrDark, path.String())
	b.WriteString(`</svg>`)

	return b.String()
}

func isDark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 128
}
