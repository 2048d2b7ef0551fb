package common

import (
	"fmt"
	"math"
	"strconv"
)

// --------------------------------------------------------------------------
// Value Conversion
// --------------------------------------------------------------------------

/*
	Decoded payloads only contain a handful of dynamic types: int64, uint64, float64,
	string, bool, nil, []any and map[string]any. Peers written in other languages pick
	the smallest integer encoding, so a value sent as 5 may arrive as int64 or uint64.
	The helpers below hide that from procedure implementations.
*/

// ToInt64 converts an integer-like decoded value to int64
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrInvalidArguments, n)
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrInvalidArguments, n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidArguments, n)
		}
		return int64(n), nil
	case float32:
		return ToInt64(float64(n))
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrInvalidArguments, v)
	}
}

// ToUint64 converts a non-negative integer-like decoded value to uint64
func ToUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	}

	i, err := ToInt64(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidArguments, i)
	}
	return uint64(i), nil
}

// ToFloat64 converts any numeric decoded value to float64
func ToFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}

	i, err := ToInt64(v)
	if err != nil {
		return 0, fmt.Errorf("%w: expected number, got %T", ErrInvalidArguments, v)
	}
	return float64(i), nil
}

// ToString converts a decoded string (or binary) value to string
func ToString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: expected string, got %T", ErrInvalidArguments, v)
	}
}

// ToBool converts a decoded bool value. Integers are accepted (0 = false) since
// some peers have no boolean type.
func ToBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	i, err := ToInt64(v)
	if err != nil {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidArguments, v)
	}
	return i != 0, nil
}

// --------------------------------------------------------------------------
// Argument List Helpers
// --------------------------------------------------------------------------

// ExpectArgs checks that args holds exactly n values
func ExpectArgs(args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %d arguments, got %d", ErrInvalidArguments, n, len(args))
	}
	return nil
}

// ExpectMinArgs checks that args holds at least n values
func ExpectMinArgs(args []any, n int) error {
	if len(args) < n {
		return fmt.Errorf("%w: expected at least %d arguments, got %d", ErrInvalidArguments, n, len(args))
	}
	return nil
}

// ArgInt64 returns argument i as int64
func ArgInt64(args []any, i int) (int64, error) {
	if err := checkIndex(args, i); err != nil {
		return 0, err
	}
	v, err := ToInt64(args[i])
	if err != nil {
		return 0, fmt.Errorf("argument %d: %w", i, err)
	}
	return v, nil
}

// ArgUint64 returns argument i as uint64
func ArgUint64(args []any, i int) (uint64, error) {
	if err := checkIndex(args, i); err != nil {
		return 0, err
	}
	v, err := ToUint64(args[i])
	if err != nil {
		return 0, fmt.Errorf("argument %d: %w", i, err)
	}
	return v, nil
}

// ArgFloat64 returns argument i as float64
func ArgFloat64(args []any, i int) (float64, error) {
	if err := checkIndex(args, i); err != nil {
		return 0, err
	}
	v, err := ToFloat64(args[i])
	if err != nil {
		return 0, fmt.Errorf("argument %d: %w", i, err)
	}
	return v, nil
}

// ArgString returns argument i as string
func ArgString(args []any, i int) (string, error) {
	if err := checkIndex(args, i); err != nil {
		return "", err
	}
	v, err := ToString(args[i])
	if err != nil {
		return "", fmt.Errorf("argument %d: %w", i, err)
	}
	return v, nil
}

// ArgBool returns argument i as bool
func ArgBool(args []any, i int) (bool, error) {
	if err := checkIndex(args, i); err != nil {
		return false, err
	}
	v, err := ToBool(args[i])
	if err != nil {
		return false, fmt.Errorf("argument %d: %w", i, err)
	}
	return v, nil
}

func checkIndex(args []any, i int) error {
	if i < 0 || i >= len(args) {
		return fmt.Errorf("%w: missing argument %s", ErrInvalidArguments, strconv.Itoa(i))
	}
	return nil
}
