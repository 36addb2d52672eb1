package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV parses WAV bytes into a mono clip. Multi-channel input is
// downmixed by averaging; sample depths other than 16 bit are rescaled.
func DecodeWAV(data []byte) (*Clip, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("decode wav: missing format")
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	frames := len(buf.Data) / channels
	samples := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		samples[i] = sum / channels
	}

	if depth := int(buf.SourceBitDepth); depth != 0 && depth != 16 {
		shift := depth - 16
		for i, s := range samples {
			if shift > 0 {
				samples[i] = s >> shift
			} else {
				samples[i] = s << (-shift)
			}
		}
	}

	return &Clip{SampleRate: buf.Format.SampleRate, Samples: samples}, nil
}

// ReadWAVFile decodes a WAV file from disk.
func ReadWAVFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav file: %w", err)
	}
	return DecodeWAV(data)
}

// EncodeWAV writes the clip as a 16-bit mono WAV stream.
func EncodeWAV(c *Clip, w io.WriteSeeker) error {
	if c == nil || c.SampleRate <= 0 {
		return errZeroRate
	}
	enc := wav.NewEncoder(w, c.SampleRate, 16, 1, 1)
	data := make([]int, len(c.Samples))
	for i, s := range c.Samples {
		data[i] = clampSample(s)
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: c.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// WriteWAVFile writes the clip as a 16-bit mono WAV file.
func WriteWAVFile(c *Clip, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer file.Close()
	return EncodeWAV(c, file)
}
