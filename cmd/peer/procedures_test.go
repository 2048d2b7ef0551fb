package peer

import (
	"context"
	"errors"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/client"
	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/link"
	"github.com/ValentinKolb/rpclink/rpc/serializer"
	"github.com/ValentinKolb/rpclink/rpc/server"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
)

func TestDemoProcedures(t *testing.T) {
	registry := server.NewProcedureRegistry()
	if err := bindDemoProcedures(registry); err != nil {
		t.Fatalf("Failed to bind procedures: %v", err)
	}
	ledOn.Store(false)

	testCases := []struct {
		name      string
		procedure string
		args      []any
		expected  any
		wantErr   bool
	}{
		{"Add integers", "add", []any{int64(12), int64(34)}, int64(46), false},
		{"Add unsigned", "add", []any{uint64(2), int64(3)}, int64(5), false},
		{"Add floats", "add", []any{1.5, int64(1)}, 2.5, false},
		{"Add strings", "add", []any{"a", "b"}, nil, true},
		{"Add missing argument", "add", []any{int64(1)}, nil, true},
		{"Echo", "echo", []any{"x", int64(1)}, []any{"x", int64(1)}, false},
		{"LED color", "led_color", []any{}, int64(88), false},
		{"LED on", "led_power", []any{true}, false, false},
		{"LED off as integer", "led_power", []any{int64(0)}, true, false},
		{"LED power not a bool", "led_power", []any{"on"}, nil, true},
		{"Adder on unknown handle", "adder_add", []any{uint64(999), int64(1), int64(2)}, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fn, ok := registry.Lookup(tc.procedure)
			if !ok {
				t.Fatalf("Procedure %s not bound", tc.procedure)
			}
			result, err := fn(context.Background(), tc.args)
			if tc.wantErr {
				if !errors.Is(err, common.ErrInvalidArguments) {
					t.Errorf("Expected ErrInvalidArguments, got %v (result %v)", err, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Expected %#v, got %#v", tc.expected, result)
			}
		})
	}

	names, _ := registry.Lookup("procedures")
	list, err := names(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	expected := []any{"add", "adder_add", "adder_new", "adder_total", "echo", "led_color", "led_power", "procedures"}
	if !reflect.DeepEqual(list, expected) {
		t.Errorf("Expected %v, got %v", expected, list)
	}
}

func TestRegistryMiddlewares(t *testing.T) {
	conf := common.DefaultLinkConfig("")
	conf.RateLimit = 1
	conf.RateBurst = 1

	registry, err := newRegistry(conf)
	if err != nil {
		t.Fatal(err)
	}
	fn, _ := registry.Lookup("led_color")

	if _, err := fn(context.Background(), nil); err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if _, err := fn(context.Background(), nil); !errors.Is(err, server.ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestAdderOverLink(t *testing.T) {
	registry := server.NewProcedureRegistry()
	if err := bindDemoProcedures(registry); err != nil {
		t.Fatal(err)
	}

	a, b := net.Pipe()
	conf := common.DefaultLinkConfig("pipe")
	conf.CallTimeout = 2 * time.Second

	controller, err := link.Open(conf, base.WrapConn(a, "pipe", 0), serializer.NewMsgpackSerializer(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer controller.Close()
	peer, err := link.Open(conf, base.WrapConn(b, "pipe", 0), serializer.NewMsgpackSerializer(), registry)
	if err != nil {
		t.Fatal(err)
	}
	defer peer.Close()

	ctx := context.Background()
	obj, err := client.NewRemoteClass(controller, "Adder").New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sum, err := obj.Invoke(ctx, "add", 12, 34)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if n, _ := common.ToInt64(sum); n != 46 {
		t.Errorf("Expected 46, got %v", sum)
	}
	if _, err := obj.Invoke(ctx, "add", 1, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	total, err := obj.Invoke(ctx, "total")
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if n, _ := common.ToInt64(total); n != 50 {
		t.Errorf("Expected total 50, got %v", total)
	}

	color, err := controller.Call(ctx, "led_color")
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := common.ToInt64(color); n != ledColor {
		t.Errorf("Expected %d, got %v", ledColor, color)
	}
}
