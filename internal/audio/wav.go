package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Format describes the PCM layout of a WAV payload.
type Format struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

func (f Format) blockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

func (f Format) byteRate() int {
	return f.SampleRate * f.blockAlign()
}

var errNotWAV = errors.New("not a RIFF/WAVE payload")

// DecodeWAV extracts the format and raw PCM data from a canonical WAV file.
// Only uncompressed PCM (format tag 1) is supported.
func DecodeWAV(payload []byte) (Format, []byte, error) {
	var format Format
	if len(payload) < 12 || string(payload[0:4]) != "RIFF" || string(payload[8:12]) != "WAVE" {
		return format, nil, errNotWAV
	}

	var pcm []byte
	haveFmt := false
	offset := 12
	for offset+8 <= len(payload) {
		chunkID := string(payload[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(payload[offset+4 : offset+8]))
		body := payload[offset+8:]
		if chunkSize > len(body) {
			chunkSize = len(body)
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return format, nil, fmt.Errorf("wav fmt chunk truncated (%d bytes)", chunkSize)
			}
			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			if audioFormat != 1 {
				return format, nil, fmt.Errorf("unsupported wav format tag %d", audioFormat)
			}
			format.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			format.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFmt = true
		case "data":
			pcm = body[:chunkSize]
		}
		// Chunks are word aligned.
		offset += 8 + chunkSize + chunkSize%2
	}

	if !haveFmt {
		return format, nil, errors.New("wav fmt chunk missing")
	}
	if format.Channels <= 0 || format.SampleRate <= 0 || format.BitsPerSample <= 0 {
		return format, nil, fmt.Errorf("invalid wav format %+v", format)
	}
	if pcm == nil {
		return format, nil, errors.New("wav data chunk missing")
	}
	return format, pcm, nil
}

// EncodeWAV wraps raw PCM data in a canonical WAV container.
func EncodeWAV(format Format, pcm []byte) []byte {
	out := make([]byte, 0, 44+len(pcm))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(pcm)))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint16(out, uint16(format.Channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(format.SampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(format.byteRate()))
	out = binary.LittleEndian.AppendUint16(out, uint16(format.blockAlign()))
	out = binary.LittleEndian.AppendUint16(out, uint16(format.BitsPerSample))

	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pcm)))
	out = append(out, pcm...)
	return out
}
