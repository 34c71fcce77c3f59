package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Encoding selects the output stream sample format.
type Encoding int

const (
	EncFloat32 Encoding = iota
	EncInt16
	EncUint16
)

func (e Encoding) String() string {
	switch e {
	case EncInt16:
		return "i16"
	case EncUint16:
		return "u16"
	}
	return "f32"
}

func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "f32", "float32":
		return EncFloat32, nil
	case "i16", "int16":
		return EncInt16, nil
	case "u16", "uint16":
		return EncUint16, nil
	}
	return 0, fmt.Errorf("unknown encoding: %s", name)
}

// Sink drives the engine from the portaudio callback. The float32 encoding
// uses non-interleaved channel buffers; the integer encodings use an
// interleaved int16 stream, with u16 expressed as i16 biased by 32768 on the
// engine side of the driver. Devices with more than two output channels get
// the stereo pair on channels 0/1 and the mono average on the rest.
type Sink struct {
	engine   *Engine
	encoding Encoding
	channels int
	stream   *portaudio.Stream

	left  []float64
	right []float64
}

func NewSink(engine *Engine, sampleRate float64, bufferSize int, encoding Encoding) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	device, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("no output device: %w", err)
	}
	channels := device.MaxOutputChannels
	if channels < 1 {
		portaudio.Terminate()
		return nil, fmt.Errorf("output device has no channels")
	}
	s := &Sink{
		engine:   engine,
		encoding: encoding,
		channels: channels,
		left:     make([]float64, bufferSize),
		right:    make([]float64, bufferSize),
	}

	var stream *portaudio.Stream
	if encoding == EncFloat32 {
		stream, err = portaudio.OpenDefaultStream(0, channels, sampleRate, bufferSize, s.processFloat32)
	} else {
		stream, err = portaudio.OpenDefaultStream(0, channels, sampleRate, bufferSize, s.processInt16)
	}
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Close() error {
	s.stream.Close()
	return portaudio.Terminate()
}

func (s *Sink) render(n int) {
	if n > len(s.left) {
		s.left = make([]float64, n)
		s.right = make([]float64, n)
	}
	s.engine.Process(s.left[:n], s.right[:n])
}

func (s *Sink) processFloat32(out [][]float32) {
	n := len(out[0])
	s.render(n)
	encodeFloat32(out, s.left[:n], s.right[:n])
}

func (s *Sink) processInt16(out []int16) {
	n := len(out) / s.channels
	s.render(n)
	if s.encoding == EncUint16 {
		encodeUint16(out, s.channels, s.left[:n], s.right[:n])
	} else {
		encodeInt16(out, s.channels, s.left[:n], s.right[:n])
	}
}

// channelSample maps the stereo pair onto an arbitrary channel layout:
// channels 0 and 1 carry left and right, everything else the mono average.
// A mono device gets the average too.
func channelSample(ch int, left, right float64, channels int) float64 {
	switch {
	case channels < 2, ch > 1:
		return (left + right) / 2
	case ch == 0:
		return left
	}
	return right
}

func encodeFloat32(out [][]float32, left, right []float64) {
	channels := len(out)
	for i := range left {
		for ch := 0; ch < channels; ch++ {
			out[ch][i] = float32(channelSample(ch, left[i], right[i], channels))
		}
	}
}

func encodeInt16(out []int16, channels int, left, right []float64) {
	for i := range left {
		for ch := 0; ch < channels; ch++ {
			out[channels*i+ch] = sampleToInt16(channelSample(ch, left[i], right[i], channels))
		}
	}
}

// encodeUint16 maps [-1,1] to the unsigned 16-bit range 0..65535, carried on
// the wire as the bias-equivalent signed value.
func encodeUint16(out []int16, channels int, left, right []float64) {
	for i := range left {
		for ch := 0; ch < channels; ch++ {
			v := channelSample(ch, left[i], right[i], channels)
			out[channels*i+ch] = int16(sampleToUint16(v) - 32768)
		}
	}
}

func sampleToInt16(v float64) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

func sampleToUint16(v float64) int {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int((v + 1) / 2 * 65535)
}
