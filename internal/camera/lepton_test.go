package camera

import (
	"encoding/binary"
	"image"
	"testing"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/lepton"
	"periph.io/x/devices/v3/lepton/image14bit"
)

func TestEncodeCentiK(t *testing.T) {
	f := lepton.Frame{Gray14: image14bit.NewGray14(image.Rect(0, 0, 3, 2))}
	// Reference count, 100 counts either side, the full range and one count
	// over (odd half-counts truncate toward zero).
	copy(f.Pix, []uint16{8192, 8292, 8092, 0, 16383, 8193})
	f.Metadata.Temp = 300 * physic.Kelvin

	buf := make([]byte, 2*6)
	encodeCentiK(&f, buf)

	want := []uint16{30000, 30250, 29750, 9520, 50477, 30002}
	for i, w := range want {
		if got := binary.LittleEndian.Uint16(buf[2*i:]); got != w {
			t.Errorf("pixel %d: got %d, want %d", i, got, w)
		}
	}
}

func TestEncodeCentiKClamps(t *testing.T) {
	f := lepton.Frame{Gray14: image14bit.NewGray14(image.Rect(0, 0, 2, 1))}
	copy(f.Pix, []uint16{0, 16383})

	f.Metadata.Temp = 0
	buf := make([]byte, 4)
	encodeCentiK(&f, buf)
	if got := binary.LittleEndian.Uint16(buf); got != 0 {
		t.Errorf("below zero: got %d, want 0", got)
	}

	f.Metadata.Temp = 700 * physic.Kelvin
	encodeCentiK(&f, buf)
	if got := binary.LittleEndian.Uint16(buf[2:]); got != 65535 {
		t.Errorf("above range: got %d, want 65535", got)
	}
}

func TestEncodeCentiKBodyTemperature(t *testing.T) {
	// A 37 °C scene against a 27 °C sensor is 400 counts above the reference.
	f := lepton.Frame{Gray14: image14bit.NewGray14(image.Rect(0, 0, 1, 1))}
	f.Metadata.Temp = physic.ZeroCelsius + 27*physic.Kelvin
	f.Pix[0] = 8192 + 400

	buf := make([]byte, 2)
	encodeCentiK(&f, buf)

	fahrenheit := 1.8*(float64(binary.LittleEndian.Uint16(buf))-27315)/100 + 32
	if fahrenheit < 98 || fahrenheit > 99 {
		t.Errorf("got %.1f degF, want about 98.6", fahrenheit)
	}
}
