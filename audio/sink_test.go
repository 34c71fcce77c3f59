package audio

import "testing"

func TestParseEncoding(t *testing.T) {
	for _, tt := range []struct {
		name string
		want Encoding
	}{
		{"f32", EncFloat32},
		{"float32", EncFloat32},
		{"i16", EncInt16},
		{"int16", EncInt16},
		{"u16", EncUint16},
		{"uint16", EncUint16},
	} {
		got, err := ParseEncoding(tt.name)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, got)
		}
	}
	if _, err := ParseEncoding("s24"); err == nil {
		t.Error("want an error for an unsupported encoding")
	}
}

func TestSampleConversionClamps(t *testing.T) {
	if got := sampleToInt16(2); got != 32767 {
		t.Errorf("want clamp to 32767, got %d", got)
	}
	if got := sampleToInt16(-2); got != -32767 {
		t.Errorf("want clamp to -32767, got %d", got)
	}
	if got := sampleToInt16(0); got != 0 {
		t.Errorf("want 0, got %d", got)
	}
	if got := sampleToUint16(-1); got != 0 {
		t.Errorf("want 0 at negative full scale, got %d", got)
	}
	if got := sampleToUint16(1); got != 65535 {
		t.Errorf("want 65535 at positive full scale, got %d", got)
	}
}

func TestChannelSampleLayout(t *testing.T) {
	left, right := 0.5, -0.25
	avg := (left + right) / 2

	// stereo and beyond: 0 is left, 1 is right, the rest average
	if got := channelSample(0, left, right, 2); got != left {
		t.Errorf("channel 0: want %v, got %v", left, got)
	}
	if got := channelSample(1, left, right, 2); got != right {
		t.Errorf("channel 1: want %v, got %v", right, got)
	}
	if got := channelSample(3, left, right, 4); got != avg {
		t.Errorf("channel 3: want average %v, got %v", avg, got)
	}
	// mono collapses to the average
	if got := channelSample(0, left, right, 1); got != avg {
		t.Errorf("mono: want average %v, got %v", avg, got)
	}
}

func TestEncodeInt16Interleaving(t *testing.T) {
	left := []float64{1, 0}
	right := []float64{-1, 0.5}
	out := make([]int16, 4)
	encodeInt16(out, 2, left, right)

	want := []int16{32767, -32767, 0, 16383}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: want %d, got %d", i, want[i], out[i])
		}
	}
}
