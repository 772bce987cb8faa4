package rational_test

import (
	"testing"

	"github.com/pimedia/hdmilink/internal/rational"
)

func TestBestApproximation(t *testing.T) {
	tests := []struct {
		name             string
		num, den         uint64
		maxNum, maxDen   uint64
		wantN, wantD     uint64
	}{
		{"exact fit", 3, 4, 255, 255, 3, 4},
		{"reducible", 12, 16, 255, 255, 3, 4},
		{"zero numerator", 0, 7, 255, 255, 0, 1},
		{"integer ratio", 10, 2, 255, 255, 5, 1},
		{"pi to small bounds", 31415926, 10000000, 255, 255, 245, 78},
		{"pi to tiny bounds", 31415926, 10000000, 30, 30, 22, 7},
		{"sqrt2 bounded", 14142136, 10000000, 100, 100, 99, 70},
		{"saturates numerator", 1000000, 1, 255, 255, 255, 1},
		// MAI divider shape: HSM clock over 128*fs with the hardware's
		// 24-bit/8-bit field widths.
		{"mai 48kHz", 108000000, 128 * 48000, 0xFFFFFF, 0x100, 1125, 64},
		{"mai 44.1kHz", 108000000, 128 * 44100, 0xFFFFFF, 0x100, 1875, 98},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, d := rational.BestApproximation(tt.num, tt.den, tt.maxNum, tt.maxDen)
			if n != tt.wantN || d != tt.wantD {
				t.Errorf("BestApproximation(%d, %d, %d, %d) = %d/%d, want %d/%d",
					tt.num, tt.den, tt.maxNum, tt.maxDen, n, d, tt.wantN, tt.wantD)
			}
		})
	}
}

// Bounds hold for a sweep of awkward inputs.
func TestBestApproximationBounds(t *testing.T) {
	for num := uint64(1); num < 2000; num += 37 {
		for den := uint64(1); den < 2000; den += 41 {
			n, d := rational.BestApproximation(num, den, 100, 100)
			if n > 100 || d > 100 || d == 0 {
				t.Fatalf("BestApproximation(%d, %d, 100, 100) = %d/%d out of bounds", num, den, n, d)
			}
		}
	}
}
