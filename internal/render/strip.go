package render

import (
	"fmt"
	"strings"
)

// ChannelOrder is the byte order a strip expects for each LED.
type ChannelOrder string

const (
	OrderRGB ChannelOrder = "RGB"
	OrderGRB ChannelOrder = "GRB"
	OrderBGR ChannelOrder = "BGR"
)

// ParseChannelOrder accepts RGB, GRB or BGR in any case.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	o := ChannelOrder(strings.ToUpper(strings.TrimSpace(s)))
	switch o {
	case OrderRGB, OrderGRB, OrderBGR:
		return o, nil
	case "":
		return OrderRGB, nil
	}
	return "", fmt.Errorf("unsupported channel order %q: expected RGB, GRB or BGR", s)
}

// Put writes one LED's channels into dst[0:3].
func (o ChannelOrder) Put(dst []byte, r, g, b uint8) {
	switch o {
	case OrderGRB:
		dst[0], dst[1], dst[2] = g, r, b
	case OrderBGR:
		dst[0], dst[1], dst[2] = b, g, r
	default:
		dst[0], dst[1], dst[2] = r, g, b
	}
}

// Get reads one LED's channels back from src[0:3].
func (o ChannelOrder) Get(src []byte) (r, g, b uint8) {
	switch o {
	case OrderGRB:
		return src[1], src[0], src[2]
	case OrderBGR:
		return src[2], src[1], src[0]
	}
	return src[0], src[1], src[2]
}

// BytesPerLED is the frame buffer stride.
const BytesPerLED = 3

// Strip is an addressable LED chain. The renderer writes into FrameBuffer
// and then calls Render once per tick.
type Strip interface {
	// FrameBuffer holds BytesPerLED bytes per LED in Order.
	FrameBuffer() []byte
	Order() ChannelOrder
	Render() error
	Close() error
}

// ChannelConfig describes the strip to open.
type ChannelConfig struct {
	Count int
	Order ChannelOrder
	// Brightness scales every channel; 255 is full.
	Brightness uint8
	Port       string
	Serial     PortOptions
}

// BuildFunc opens a strip. The renderer calls it once per power cycle.
type BuildFunc func(cfg ChannelConfig) (Strip, error)

func scale(v, brightness uint8) uint8 {
	return uint8((uint16(v)*uint16(brightness) + 127) / 255)
}
