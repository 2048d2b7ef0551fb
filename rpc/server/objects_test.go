package server

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/rpclink/rpc/common"
)

type counter struct {
	value int64
}

func TestObjectTableHandles(t *testing.T) {
	table := NewObjectTable[*counter]()

	first := table.Add(&counter{})
	second := table.Add(&counter{value: 10})

	if first != 1 || second != 2 {
		t.Errorf("Expected handles 1 and 2, got %d and %d", first, second)
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 instances, got %d", table.Len())
	}

	obj, ok := table.Get(second)
	if !ok || obj.value != 10 {
		t.Errorf("Get(%d) returned %v, %v", second, obj, ok)
	}
	if _, ok := table.Get(0); ok {
		t.Error("Handle 0 must never be allocated")
	}
}

func TestObjectTableReceiver(t *testing.T) {
	table := NewObjectTable[*counter]()
	handle := table.Add(&counter{value: 5})

	// handles arrive as int64 or uint64 depending on the peer's encoding
	for _, h := range []any{int64(handle), handle} {
		obj, rest, err := table.Receiver([]any{h, int64(12), int64(34)})
		if err != nil {
			t.Fatalf("Receiver failed: %v", err)
		}
		if obj.value != 5 {
			t.Errorf("Wrong instance %v", obj)
		}
		if len(rest) != 2 {
			t.Errorf("Expected 2 remaining args, got %v", rest)
		}
	}

	testCases := []struct {
		name string
		args []any
	}{
		{"Missing handle", []any{}},
		{"Unknown handle", []any{int64(99)}},
		{"Handle is a string", []any{"one"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := table.Receiver(tc.args)
			if !errors.Is(err, common.ErrInvalidArguments) {
				t.Errorf("Expected ErrInvalidArguments, got %v", err)
			}
		})
	}
}
