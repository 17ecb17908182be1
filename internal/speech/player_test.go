package speech

import (
	"encoding/binary"
	"testing"
)

func wav(chunks ...[]byte) []byte {
	out := []byte("RIFF\x00\x00\x00\x00WAVE")
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func chunk(id string, body []byte) []byte {
	out := []byte(id)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	out = append(out, body...)
	if len(body)%2 != 0 {
		out = append(out, 0)
	}
	return out
}

func TestExtractPCM(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	fmtChunk := chunk("fmt ", make([]byte, 16))

	tests := []struct {
		name    string
		in      []byte
		want    []byte
		wantErr bool
	}{
		{"plain", wav(fmtChunk, chunk("data", pcm)), pcm, false},
		{"odd chunk before data", wav(fmtChunk, chunk("LIST", []byte{9, 9, 9}), chunk("data", pcm)), pcm, false},
		{"too short", []byte("RIFF"), nil, true},
		{"not wave", append([]byte("RIFX\x00\x00\x00\x00WAVE"), make([]byte, 40)...), nil, true},
		{"no data", wav(fmtChunk, chunk("LIST", make([]byte, 20))), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractPCM(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tt.wantErr)
			}
			if string(got) != string(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
