package fx

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: White, want: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: RageRed, want: color.RGBA{R: 0xd8, G: 0x1e, B: 0x1e, A: 255}},
		{in: "#10203040", want: color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: "f2a65a", want: color.RGBA{R: 0xf2, G: 0xa6, B: 0x5a, A: 255}},
		{in: "#fff", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
