package span

import (
	"reflect"
	"testing"

	"github.com/stannote/stannote/core/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		spans []AnySpan
		want  []Span
	}{
		{
			name:  "empty",
			spans: nil,
			want:  nil,
		},
		{
			name:  "single",
			spans: []AnySpan{Span{10, 20}},
			want:  []Span{{10, 20}},
		},
		{
			name:  "unsorted",
			spans: []AnySpan{Span{30, 40}, Span{0, 5}},
			want:  []Span{{0, 5}, {30, 40}},
		},
		{
			name:  "touching merged",
			spans: []AnySpan{Span{0, 5}, Span{5, 10}},
			want:  []Span{{0, 10}},
		},
		{
			name:  "overlapping merged",
			spans: []AnySpan{Span{0, 7}, Span{4, 12}},
			want:  []Span{{0, 12}},
		},
		{
			name:  "contained merged",
			spans: []AnySpan{Span{0, 20}, Span{5, 10}},
			want:  []Span{{0, 20}},
		},
		{
			name:  "disjoint kept apart",
			spans: []AnySpan{Span{0, 5}, Span{10, 15}},
			want:  []Span{{0, 5}, {10, 15}},
		},
		{
			name: "modified span flattened",
			spans: []AnySpan{
				Span{0, 4},
				ModifiedSpan{Len: 3, ReplacedSpans: []Span{{10, 14}, {20, 24}}},
			},
			want: []Span{{0, 4}, {10, 14}, {20, 24}},
		},
		{
			name: "pure insertion disappears",
			spans: []AnySpan{
				Span{0, 4},
				ModifiedSpan{Len: 10},
				Span{4, 8},
			},
			want: []Span{{0, 8}},
		},
		{
			name:  "zero length marker preserved",
			spans: []AnySpan{Span{0, 10}, Span{5, 5}},
			want:  []Span{{0, 10}, {5, 5}},
		},
		{
			name:  "zero length markers not merged together",
			spans: []AnySpan{Span{3, 3}, Span{3, 3}},
			want:  []Span{{3, 3}, {3, 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.spans)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	spans := []AnySpan{
		Span{30, 40},
		ModifiedSpan{Len: 5, ReplacedSpans: []Span{{0, 5}, {8, 12}}},
		Span{11, 20},
	}
	first, err := Normalize(spans)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	again := make([]AnySpan, len(first))
	for i, s := range first {
		again[i] = s
	}
	second, err := Normalize(again)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass = %v, want %v", second, first)
	}
}

func TestNormalizeInvalidSpan(t *testing.T) {
	_, err := Normalize([]AnySpan{Span{10, 5}})
	if !errors.IsInvalidInput(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	_, err = Normalize([]AnySpan{ModifiedSpan{Len: 2, ReplacedSpans: []Span{{-1, 3}}}})
	if !errors.IsInvalidInput(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBounds(t *testing.T) {
	if _, _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) should not be ok")
	}
	start, end, ok := Bounds([]Span{{10, 15}, {3, 8}, {20, 25}})
	if !ok || start != 3 || end != 25 {
		t.Errorf("Bounds() = (%d, %d, %v), want (3, 25, true)", start, end, ok)
	}
}

func TestMergeGaps(t *testing.T) {
	text := "heart  failure with reduced ejection"
	tests := []struct {
		name   string
		spans  []Span
		maxGap int
		want   []Span
	}{
		{
			name:   "whitespace gap absorbed",
			spans:  []Span{{0, 5}, {7, 14}},
			maxGap: 0,
			want:   []Span{{0, 14}},
		},
		{
			name:   "word gap kept",
			spans:  []Span{{0, 14}, {20, 27}},
			maxGap: 2,
			want:   []Span{{0, 14}, {20, 27}},
		},
		{
			name:   "word gap absorbed with larger budget",
			spans:  []Span{{0, 14}, {20, 27}},
			maxGap: 4,
			want:   []Span{{0, 27}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeGaps(tt.spans, text, tt.maxGap)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeGaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
