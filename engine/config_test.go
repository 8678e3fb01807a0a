package engine

import (
	"errors"
	"testing"
	"time"
)

func TestSetOption(t *testing.T) {
	params := DefaultSearchParams()
	for _, opt := range [][2]string{
		{"depth", "9"},
		{"max_depth", "30"},
		{"null_move_reduction", "0"},
		{"debug_print", "2"},
		{"max_time", "1500"},
		{"total_time", "600000"},
		{"handle_errors", "true"},
		{"Book_Plies", " 4 "},
	} {
		if err := params.SetOption(opt[0], opt[1]); err != nil {
			t.Fatalf("SetOption(%s, %s): %v", opt[0], opt[1], err)
		}
	}

	want := SearchParams{
		Depth:             9,
		MaxDepth:          30,
		NullMoveReduction: 0,
		DebugPrint:        2,
		MaxTime:           1500 * time.Millisecond,
		TotalTime:         10 * time.Minute,
		HandleErrors:      true,
		BookPlies:         4,
	}
	if params != want {
		t.Errorf("expected %+v, got %+v", want, params)
	}
}

func TestSetOptionRejects(t *testing.T) {
	params := DefaultSearchParams()
	if err := params.SetOption("hash_size", "64"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}
	for _, opt := range [][2]string{{"depth", "0"}, {"depth", "deep"}, {"max_time", "-1"}, {"handle_errors", "maybe"}} {
		if err := params.SetOption(opt[0], opt[1]); err == nil {
			t.Errorf("expected an error for %s=%s", opt[0], opt[1])
		}
	}
	if params != DefaultSearchParams() {
		t.Errorf("rejected options must not change the params, got %+v", params)
	}
}
