package thumbnail

import (
	"encoding/base64"
	"fmt"
)

// placeholderDataURI renders a styled stand-in graphic as an SVG data URI so
// a missing thumbnail never shows up as a broken image.
func placeholderDataURI(label string) string {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="640" height="360" viewBox="0 0 640 360">`+
		`<rect width="640" height="360" fill="#1f2430"/>`+
		`<polygon points="290,145 290,215 355,180" fill="#4a5568"/>`+
		`<text x="320" y="270" text-anchor="middle" font-family="sans-serif" font-size="20" fill="#718096">%s</text>`+
		`</svg>`, label)

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
