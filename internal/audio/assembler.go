package audio

import (
	"log/slog"
	"sort"
	"time"

	"podforge/internal/logging"
)

// TurnGap is the fixed silence inserted after every turn.
const TurnGap = 400 * time.Millisecond

// Chunk is one synthesized turn. Nil Data marks a turn whose synthesis
// failed; it is skipped during assembly, not replaced with silence.
type Chunk struct {
	TurnIndex int
	Data      []byte
}

// Assembly is the result of merging a chunk set.
type Assembly struct {
	// Track is a complete WAV file, or nil when no chunk decoded.
	Track    []byte
	Merged   int
	Skipped  int
	Duration time.Duration
}

// Assemble merges synthesized chunks into one track, ordered by turn index.
// Absent and undecodable chunks are skipped and counted; a mismatched PCM
// layout relative to the first decodable chunk also skips that chunk. The
// input slice is not modified.
func Assemble(chunks []Chunk, logger *slog.Logger) Assembly {
	if logger == nil {
		logger = logging.NewNop()
	}

	ordered := make([]Chunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TurnIndex < ordered[j].TurnIndex
	})

	var (
		result Assembly
		format Format
		track  []byte
		gap    []byte
	)
	for _, chunk := range ordered {
		if len(chunk.Data) == 0 {
			result.Skipped++
			continue
		}
		chunkFormat, pcm, err := DecodeWAV(chunk.Data)
		if err != nil {
			result.Skipped++
			logger.Warn("audio chunk skipped",
				logging.Int("turn_index", chunk.TurnIndex),
				logging.Error(err))
			continue
		}
		if result.Merged == 0 {
			format = chunkFormat
			gap = silence(format, TurnGap)
		} else if chunkFormat != format {
			result.Skipped++
			logger.Warn("audio chunk skipped",
				logging.Int("turn_index", chunk.TurnIndex),
				logging.String("reason", "pcm layout differs from first chunk"))
			continue
		}
		track = append(track, pcm...)
		track = append(track, gap...)
		result.Merged++
	}

	if result.Merged == 0 {
		return result
	}
	result.Track = EncodeWAV(format, track)
	result.Duration = time.Duration(len(track)/format.blockAlign()) * time.Second / time.Duration(format.SampleRate)
	return result
}

func silence(format Format, d time.Duration) []byte {
	frames := int(int64(format.SampleRate) * int64(d) / int64(time.Second))
	return make([]byte, frames*format.blockAlign())
}
