package client

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
)

const svgTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" 
     xmlns="http://www.w3.org/2000/svg" 
     xmlns:xlink="http://www.w3.org/1999/xlink">
  <image width="%d" height="%d" 
         xlink:href="data:image/png;base64,%s"/>
</svg>`

// PNGToSVG wraps a PNG in an SVG document sized to the PNG. It runs locally and
// never talks to the server.
func PNGToSVG(data []byte) ([]byte, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read png: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return []byte(fmt.Sprintf(svgTemplate, cfg.Width, cfg.Height, cfg.Width, cfg.Height, encoded)), nil
}
