package link

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/serializer"
)

var serializerFactories = map[string]func() serializer.IRPCSerializer{
	"Msgpack": serializer.NewMsgpackSerializer,
	"JSON":    serializer.NewJSONSerializer,
}

// collect drains one call to Frames
func collect(r *FrameReader, data []byte) ([]common.Message, []error) {
	var msgs []common.Message
	var errs []error
	for msg, err := range r.Frames(data) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, errs
}

func mustSerialize(t *testing.T, s serializer.IRPCSerializer, msg *common.Message) []byte {
	t.Helper()
	b, err := s.Serialize(*msg)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	return b
}

func TestFrameReader(t *testing.T) {
	for name, factory := range serializerFactories {
		t.Run(name, func(t *testing.T) {
			s := factory()
			first := common.NewRequest(1, "add", []any{int64(2), int64(3)})
			second := common.NewResponse(1, int64(5))
			third := common.NewNotify("tick", []any{})

			t.Run("ConcatenatedFrames", func(t *testing.T) {
				r := NewFrameReader(s, 0)
				var data []byte
				for _, m := range []*common.Message{first, second, third} {
					data = append(data, mustSerialize(t, s, m)...)
				}

				msgs, errs := collect(r, data)
				if len(errs) != 0 {
					t.Fatalf("Unexpected errors: %v", errs)
				}
				expected := []common.Message{*first, *second, *third}
				if !reflect.DeepEqual(msgs, expected) {
					t.Errorf("Expected %v, got %v", expected, msgs)
				}
				if r.Buffered() != 0 {
					t.Errorf("Expected empty buffer, got %d bytes", r.Buffered())
				}
			})

			t.Run("ByteByByte", func(t *testing.T) {
				r := NewFrameReader(s, 0)
				data := append(mustSerialize(t, s, first), mustSerialize(t, s, second)...)

				var msgs []common.Message
				for i := range data {
					got, errs := collect(r, data[i:i+1])
					if len(errs) != 0 {
						t.Fatalf("Unexpected errors at byte %d: %v", i, errs)
					}
					msgs = append(msgs, got...)
				}

				expected := []common.Message{*first, *second}
				if !reflect.DeepEqual(msgs, expected) {
					t.Errorf("Expected %v, got %v", expected, msgs)
				}
			})

			t.Run("TruncatedThenCompleted", func(t *testing.T) {
				r := NewFrameReader(s, 0)
				frame := mustSerialize(t, s, first)
				cut := len(frame) / 2

				msgs, errs := collect(r, frame[:cut])
				if len(msgs) != 0 || len(errs) != 0 {
					t.Fatalf("Expected nothing for a partial frame, got %v %v", msgs, errs)
				}
				if r.Buffered() != cut {
					t.Errorf("Expected %d retained bytes, got %d", cut, r.Buffered())
				}

				// the retained bytes must not alias the caller's buffer
				scratch := append([]byte(nil), frame[:cut]...)
				r2 := NewFrameReader(s, 0)
				collect(r2, scratch)
				for i := range scratch {
					scratch[i] = 0xff
				}
				if got, _ := collect(r2, frame[cut:]); len(got) != 1 || !reflect.DeepEqual(got[0], *first) {
					t.Errorf("Retained bytes were overwritten, got %v", got)
				}

				msgs, errs = collect(r, frame[cut:])
				if len(errs) != 0 || len(msgs) != 1 || !reflect.DeepEqual(msgs[0], *first) {
					t.Errorf("Expected %v, got %v %v", *first, msgs, errs)
				}
			})

			t.Run("EarlyBreakKeepsRest", func(t *testing.T) {
				r := NewFrameReader(s, 0)
				data := append(mustSerialize(t, s, first), mustSerialize(t, s, second)...)

				for msg, err := range r.Frames(data) {
					if err != nil || !reflect.DeepEqual(msg, *first) {
						t.Fatalf("Unexpected first frame %v (%v)", msg, err)
					}
					break
				}

				msgs, errs := collect(r, nil)
				if len(errs) != 0 || len(msgs) != 1 || !reflect.DeepEqual(msgs[0], *second) {
					t.Errorf("Expected %v, got %v %v", *second, msgs, errs)
				}
			})
		})
	}
}

func TestFrameReaderSkipsMalformedFrames(t *testing.T) {
	testCases := []struct {
		name    string
		factory func() serializer.IRPCSerializer
		garbage []byte
	}{
		{"Msgpack reserved code", serializer.NewMsgpackSerializer, []byte{0xc1}},
		{"Msgpack not an array", serializer.NewMsgpackSerializer, []byte{0x05}},
		{"Msgpack bad kind", serializer.NewMsgpackSerializer, []byte{0x94, 0x07, 0x01, 0xc0, 0xc0}},
		{"JSON not an array", serializer.NewJSONSerializer, []byte("{\"kind\":0}\n")},
		{"JSON bad kind", serializer.NewJSONSerializer, []byte("[9,1,null,null]\n")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.factory()
			r := NewFrameReader(s, 0)
			valid := common.NewResponse(3, "ok")

			data := append(append([]byte(nil), tc.garbage...), mustSerialize(t, s, valid)...)
			msgs, errs := collect(r, data)

			if len(errs) == 0 {
				t.Fatal("Expected a decode error")
			}
			var decodeErr *common.DecodeError
			if !errors.As(errs[0], &decodeErr) || decodeErr.Skipped == 0 {
				t.Errorf("Expected DecodeError with skipped bytes, got %v", errs[0])
			}
			if len(msgs) != 1 || !reflect.DeepEqual(msgs[0], *valid) {
				t.Errorf("Expected the valid frame after the garbage, got %v", msgs)
			}
		})
	}
}

func TestFrameReaderOverflow(t *testing.T) {
	s := serializer.NewMsgpackSerializer()
	r := NewFrameReader(s, 16)

	// a string header claiming 255 bytes keeps the frame incomplete
	data := []byte{0x94, 0x00, 0x01, 0xd9, 0xff}
	if _, errs := collect(r, data); len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}

	_, errs := collect(r, make([]byte, 20))
	if len(errs) != 1 {
		t.Fatalf("Expected one overflow error, got %v", errs)
	}
	var decodeErr *common.DecodeError
	if !errors.As(errs[0], &decodeErr) || decodeErr.Skipped != 25 {
		t.Errorf("Expected 25 skipped bytes, got %v", errs[0])
	}
	if r.Buffered() != 0 {
		t.Errorf("Expected empty buffer after overflow, got %d", r.Buffered())
	}

	// the reader recovers with the next frame
	valid := common.NewResponse(1, nil)
	msgs, errs := collect(r, mustSerialize(t, s, valid))
	if len(errs) != 0 || len(msgs) != 1 || !reflect.DeepEqual(msgs[0], *valid) {
		t.Errorf("Expected %v, got %v %v", *valid, msgs, errs)
	}
}
