package audio

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testFormat = Format{Channels: 1, SampleRate: 8000, BitsPerSample: 16}

func chunk(index int, marker byte) Chunk {
	pcm := bytes.Repeat([]byte{marker}, 32)
	return Chunk{TurnIndex: index, Data: EncodeWAV(testFormat, pcm)}
}

func TestAssembleSortsByTurnIndex(t *testing.T) {
	inOrder := []Chunk{chunk(0, 1), chunk(1, 2), chunk(2, 3)}
	reversed := []Chunk{chunk(2, 3), chunk(0, 1), chunk(1, 2)}

	a := Assemble(inOrder, nil)
	b := Assemble(reversed, nil)

	if a.Merged != 3 || a.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", a)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("assembly depends on input order (-inOrder +reversed):\n%s", diff)
	}

	_, pcm, err := DecodeWAV(a.Track)
	if err != nil {
		t.Fatalf("decode assembled track: %v", err)
	}
	first := bytes.IndexByte(pcm, 1)
	second := bytes.IndexByte(pcm, 2)
	third := bytes.IndexByte(pcm, 3)
	if first < 0 || second < 0 || third < 0 || !(first < second && second < third) {
		t.Fatalf("markers out of order: %d %d %d", first, second, third)
	}
}

func TestAssembleInsertsGapAfterEveryTurn(t *testing.T) {
	out := Assemble([]Chunk{chunk(0, 1), chunk(1, 2)}, nil)

	_, pcm, err := DecodeWAV(out.Track)
	if err != nil {
		t.Fatalf("decode assembled track: %v", err)
	}
	gapBytes := int(int64(testFormat.SampleRate)*int64(TurnGap)/int64(time.Second)) * testFormat.blockAlign()
	wantLen := 2 * (32 + gapBytes)
	if len(pcm) != wantLen {
		t.Fatalf("track length = %d, want %d", len(pcm), wantLen)
	}
	// The track ends with the trailing gap, not speech.
	tail := pcm[len(pcm)-gapBytes:]
	for _, b := range tail {
		if b != 0 {
			t.Fatalf("trailing gap contains non-silence byte %d", b)
		}
	}

	wantDuration := time.Duration(wantLen/testFormat.blockAlign()) * time.Second / time.Duration(testFormat.SampleRate)
	if out.Duration != wantDuration {
		t.Fatalf("duration = %s, want %s", out.Duration, wantDuration)
	}
}

func TestAssembleSkipsBadChunks(t *testing.T) {
	other := Format{Channels: 2, SampleRate: 44100, BitsPerSample: 16}
	chunks := []Chunk{
		chunk(0, 1),
		{TurnIndex: 1, Data: nil},
		{TurnIndex: 2, Data: []byte("definitely not audio")},
		{TurnIndex: 3, Data: EncodeWAV(other, bytes.Repeat([]byte{9}, 32))},
		chunk(4, 2),
	}
	out := Assemble(chunks, nil)
	if out.Merged != 2 || out.Skipped != 3 {
		t.Fatalf("unexpected counts: %+v", out)
	}

	_, pcm, err := DecodeWAV(out.Track)
	if err != nil {
		t.Fatalf("decode assembled track: %v", err)
	}
	if bytes.IndexByte(pcm, 9) >= 0 {
		t.Fatalf("mismatched-format chunk leaked into the track")
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	out := Assemble(nil, nil)
	if out.Track != nil || out.Merged != 0 || out.Skipped != 0 || out.Duration != 0 {
		t.Fatalf("unexpected assembly for empty input: %+v", out)
	}

	out = Assemble([]Chunk{{TurnIndex: 0}, {TurnIndex: 1}}, nil)
	if out.Track != nil || out.Merged != 0 || out.Skipped != 2 {
		t.Fatalf("unexpected assembly for all-failed input: %+v", out)
	}
}

func TestDecodeWAVRejectsMalformedPayloads(t *testing.T) {
	if _, _, err := DecodeWAV([]byte("RIFF....")); err == nil {
		t.Fatal("expected error for truncated header")
	}
	if _, _, err := DecodeWAV([]byte("OGGS definitely not wav, long enough")); err == nil {
		t.Fatal("expected error for non-RIFF payload")
	}

	// A fmt chunk alone is not enough; the data chunk must be present.
	noData := EncodeWAV(testFormat, nil)[:36]
	if _, _, err := DecodeWAV(noData); err == nil {
		t.Fatal("expected error for missing data chunk")
	}
}

func TestWAVRoundTrip(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	format, decoded, err := DecodeWAV(EncodeWAV(testFormat, pcm))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != testFormat {
		t.Fatalf("format = %+v, want %+v", format, testFormat)
	}
	if !bytes.Equal(decoded, pcm) {
		t.Fatalf("pcm = %v, want %v", decoded, pcm)
	}
}
