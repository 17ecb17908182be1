package levels

import (
	"testing"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
)

func TestSolvable(t *testing.T) {
	tests := []struct {
		name    string
		options [][]string
		goal    string
		want    bool
	}{
		{"single", [][]string{{"a"}}, "a", true},
		{"second option", [][]string{{"a", "b"}, {"c"}}, "b c", true},
		{"multi-word option", [][]string{{"quisiera"}, {"un"}, {"café"}, {"por favor", "gracias"}}, "quisiera un café por favor", true},
		{"wrong word", [][]string{{"a", "b"}, {"c"}}, "b d", false},
		{"too few columns", [][]string{{"a"}}, "a b", false},
		{"too many columns", [][]string{{"a"}, {"b"}, {"c"}}, "a b", false},
		{"prefix only", [][]string{{"ho"}, {"la"}}, "hola", false},
		{"ambiguous split", [][]string{{"a", "a b"}, {"b c", "c"}}, "a b c", true},
		{"no columns", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Solvable(domain.Level{Options: tt.options, Goal: tt.goal})
			if got != tt.want {
				t.Fatalf("Solvable = %v, want %v", got, tt.want)
			}
		})
	}
}
