// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil holds small text and color helpers shared by the
// extraction and slide building stages.
package textutil

import (
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

// HexToRGB parses "RRGGBB" or "#RRGGBB". Anything else is a
// *types.FormatError.
func HexToRGB(hex string) (types.RGB, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return types.RGB{}, &types.FormatError{Value: hex, Reason: "want 6 hex digits"}
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return types.RGB{}, &types.FormatError{Value: hex, Reason: "not hexadecimal"}
	}
	return types.RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// ChannelToByte maps a [0,1] channel to round(c*255). Out-of-range input
// yields out-of-range output.
func ChannelToByte(c float64) int {
	return int(math.Round(c * 255))
}

// FloatToRGB converts a float triple. With clamp set every channel is
// limited to 0-255.
func FloatToRGB(c types.FloatColor, clamp bool) types.RGB {
	rgb := types.RGB{R: ChannelToByte(c[0]), G: ChannelToByte(c[1]), B: ChannelToByte(c[2])}
	if clamp {
		rgb.R = clampByte(rgb.R)
		rgb.G = clampByte(rgb.G)
		rgb.B = clampByte(rgb.B)
	}
	return rgb
}

func clampByte(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}
