package common

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestToInt64(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected int64
		wantErr  bool
	}{
		{"Int64", int64(-5), -5, false},
		{"Int", 5, 5, false},
		{"Int8", int8(-3), -3, false},
		{"Uint32", uint32(math.MaxUint32), math.MaxUint32, false},
		{"Uint64 max int64", uint64(math.MaxInt64), math.MaxInt64, false},
		{"Uint64 overflow", uint64(math.MaxInt64) + 1, 0, true},
		{"Uint", uint(7), 7, false},
		{"Integral float64", 3.0, 3, false},
		{"Negative integral float64", -2.0, -2, false},
		{"Fractional float64", 2.5, 0, true},
		{"Float64 out of range", 1e19, 0, true},
		{"Float32", float32(4), 4, false},
		{"Fractional float32", float32(1.5), 0, true},
		{"String", "5", 0, true},
		{"Nil", nil, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ToInt64(tc.value)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArguments) {
					t.Errorf("Expected ErrInvalidArguments, got %v (value %d)", err, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if v != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, v)
			}
		})
	}
}

func TestToUint64(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected uint64
		wantErr  bool
	}{
		{"Uint64 max", uint64(math.MaxUint64), math.MaxUint64, false},
		{"Uint8", uint8(3), 3, false},
		{"Int64", int64(7), 7, false},
		{"Negative int64", int64(-1), 0, true},
		{"Negative int8", int8(-128), 0, true},
		{"Integral float64", 42.0, 42, false},
		{"Negative float64", -2.0, 0, true},
		{"Fractional float32", float32(0.5), 0, true},
		{"Bool", true, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ToUint64(tc.value)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArguments) {
					t.Errorf("Expected ErrInvalidArguments, got %v (value %d)", err, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if v != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, v)
			}
		})
	}
}

func TestScalarConversions(t *testing.T) {
	t.Run("Float64", func(t *testing.T) {
		for _, v := range []any{1.5, float32(1.5)} {
			if f, err := ToFloat64(v); err != nil || f != 1.5 {
				t.Errorf("%T: expected 1.5, got %v (%v)", v, f, err)
			}
		}
		if f, err := ToFloat64(uint64(math.MaxUint64)); err != nil || f != float64(math.MaxUint64) {
			t.Errorf("Expected max uint64 as float, got %v (%v)", f, err)
		}
		if f, err := ToFloat64(int64(-3)); err != nil || f != -3 {
			t.Errorf("Expected -3, got %v (%v)", f, err)
		}
		if _, err := ToFloat64("1.5"); !errors.Is(err, ErrInvalidArguments) {
			t.Errorf("Expected ErrInvalidArguments for string, got %v", err)
		}
	})

	t.Run("String", func(t *testing.T) {
		if s, err := ToString([]byte("red")); err != nil || s != "red" {
			t.Errorf("Expected red from bytes, got %q (%v)", s, err)
		}
		if _, err := ToString(int64(1)); !errors.Is(err, ErrInvalidArguments) {
			t.Errorf("Expected ErrInvalidArguments for int, got %v", err)
		}
	})

	t.Run("Bool", func(t *testing.T) {
		testCases := []struct {
			value    any
			expected bool
		}{
			{true, true},
			{false, false},
			{int64(0), false},
			{uint64(2), true},
		}
		for _, tc := range testCases {
			if b, err := ToBool(tc.value); err != nil || b != tc.expected {
				t.Errorf("%v (%T): expected %t, got %t (%v)", tc.value, tc.value, tc.expected, b, err)
			}
		}
		if _, err := ToBool("yes"); !errors.Is(err, ErrInvalidArguments) {
			t.Errorf("Expected ErrInvalidArguments for string, got %v", err)
		}
	})
}

func TestArgumentListHelpers(t *testing.T) {
	args := []any{int64(1), "two", true, -4.0}

	if err := ExpectArgs(args, 4); err != nil {
		t.Errorf("ExpectArgs(4) failed: %v", err)
	}
	if err := ExpectArgs(args, 3); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("ExpectArgs(3): expected ErrInvalidArguments, got %v", err)
	}
	if err := ExpectMinArgs(args, 2); err != nil {
		t.Errorf("ExpectMinArgs(2) failed: %v", err)
	}
	if err := ExpectMinArgs(args, 5); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("ExpectMinArgs(5): expected ErrInvalidArguments, got %v", err)
	}

	if v, err := ArgInt64(args, 0); err != nil || v != 1 {
		t.Errorf("ArgInt64: expected 1, got %d (%v)", v, err)
	}
	if v, err := ArgString(args, 1); err != nil || v != "two" {
		t.Errorf("ArgString: expected two, got %q (%v)", v, err)
	}
	if v, err := ArgBool(args, 2); err != nil || !v {
		t.Errorf("ArgBool: expected true, got %t (%v)", v, err)
	}
	if v, err := ArgFloat64(args, 3); err != nil || v != -4 {
		t.Errorf("ArgFloat64: expected -4, got %v (%v)", v, err)
	}

	// a wrong type names the offending position
	_, err := ArgUint64(args, 3)
	if !errors.Is(err, ErrInvalidArguments) || !strings.Contains(err.Error(), "argument 3") {
		t.Errorf("ArgUint64: expected error for argument 3, got %v", err)
	}

	for _, i := range []int{-1, 4} {
		if _, err := ArgString(args, i); !errors.Is(err, ErrInvalidArguments) || !strings.Contains(err.Error(), "missing argument") {
			t.Errorf("Index %d: expected missing argument error, got %v", i, err)
		}
	}
}
