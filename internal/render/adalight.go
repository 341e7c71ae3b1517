package render

import (
	"fmt"
)

// adalightHeaderLen is "Ada", count high byte, count low byte, checksum.
const adalightHeaderLen = 6

// Adalight drives an LED controller speaking the Adalight serial protocol.
// Each Render writes one packet: the header followed by the frame buffer
// scaled by the configured brightness.
type Adalight struct {
	port       SerialPorter
	order      ChannelOrder
	brightness uint8

	fb  []byte
	pkt []byte
}

// OpenAdalight opens cfg.Port and returns a strip of cfg.Count LEDs.
func OpenAdalight(cfg ChannelConfig) (Strip, error) {
	mode, err := cfg.Serial.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := openSerial(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Port, err)
	}
	return NewAdalight(port, cfg)
}

// NewAdalight wraps an already open port.
func NewAdalight(port SerialPorter, cfg ChannelConfig) (*Adalight, error) {
	if cfg.Count <= 0 || cfg.Count > 1<<16 {
		port.Close()
		return nil, fmt.Errorf("invalid LED count %d", cfg.Count)
	}
	a := &Adalight{
		port:       port,
		order:      cfg.Order,
		brightness: cfg.Brightness,
		fb:         make([]byte, cfg.Count*BytesPerLED),
		pkt:        make([]byte, adalightHeaderLen+cfg.Count*BytesPerLED),
	}
	if a.order == "" {
		a.order = OrderRGB
	}
	AdalightHeader(a.pkt[:adalightHeaderLen], cfg.Count)
	return a, nil
}

// AdalightHeader writes the 6-byte packet header for count LEDs into dst.
func AdalightHeader(dst []byte, count int) {
	n := count - 1
	hi, lo := byte(n>>8), byte(n)
	dst[0], dst[1], dst[2] = 'A', 'd', 'a'
	dst[3], dst[4], dst[5] = hi, lo, hi^lo^0x55
}

func (a *Adalight) FrameBuffer() []byte { return a.fb }

func (a *Adalight) Order() ChannelOrder { return a.order }

func (a *Adalight) Render() error {
	payload := a.pkt[adalightHeaderLen:]
	for i, v := range a.fb {
		payload[i] = scale(v, a.brightness)
	}
	if _, err := a.port.Write(a.pkt); err != nil {
		return fmt.Errorf("adalight: write: %w", err)
	}
	return nil
}

func (a *Adalight) Close() error {
	return a.port.Close()
}
