// Package thermal turns raw radiometric camera frames into annotated display
// images. It holds the frame hand-off between the driver's capture goroutine
// and the render loop (Source, Buffer) and the pure frame conversion (Process).
package thermal

import "fmt"

// CentiK is a radiometric temperature code in hundredths of a kelvin, the
// unit the camera reports for every pixel.
type CentiK uint16

// Celsius converts the code to degrees Celsius.
func (c CentiK) Celsius() float64 {
	return (float64(c) - 27315) / 100.0
}

// Fahrenheit converts the code to degrees Fahrenheit.
func (c CentiK) Fahrenheit() float64 {
	return 1.8*c.Celsius() + 32.0
}

func (c CentiK) String() string {
	return fmt.Sprintf("%.1f degF", c.Fahrenheit())
}

// Sample is one raw thermal frame: Width×Height codes in row-major order.
// A Sample is owned by exactly one stage at a time and is never modified
// after the Source builds it.
type Sample struct {
	Width  int
	Height int
	Pix    []uint16
}

// At returns the raw code at column x, row y.
func (s *Sample) At(x, y int) uint16 {
	return s.Pix[y*s.Width+x]
}
