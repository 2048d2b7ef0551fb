package peer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/server"
)

// ledColor is what the demo board answers for led_color
const ledColor = 88

// adder is the demo class served to controllers. Instances survive the session that
// created them, so a handle printed by "object new" can be used by later invocations.
type adder struct {
	mu    sync.Mutex
	total int64
}

func (a *adder) add(n int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total += n
	return n
}

func (a *adder) sum() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

var adders = server.NewObjectTable[*adder]()

// ledOn is the switch state behind led_power
var ledOn atomic.Bool

// bindDemoProcedures registers the procedures of the demo peer
func bindDemoProcedures(registry server.IProcedureRegistry) error {
	binds := []struct {
		name string
		fn   server.ProcedureFunc
	}{
		{"add", add},
		{"echo", echo},
		{"led_color", func(context.Context, []any) (any, error) { return int64(ledColor), nil }},
		{"led_power", ledPower},
		{"procedures", func(context.Context, []any) (any, error) {
			names := registry.Names()
			out := make([]any, len(names))
			for i, n := range names {
				out[i] = n
			}
			return out, nil
		}},
	}
	for _, b := range binds {
		if err := registry.Bind(b.name, b.fn); err != nil {
			return err
		}
	}

	if err := registry.BindConstructor("Adder", newAdder); err != nil {
		return err
	}
	if err := registry.BindMethod("Adder", "add", adderAdd); err != nil {
		return err
	}
	return registry.BindMethod("Adder", "total", adderTotal)
}

// add returns a+b, as integer if both are integers
func add(_ context.Context, args []any) (any, error) {
	if err := common.ExpectArgs(args, 2); err != nil {
		return nil, err
	}

	a, errA := common.ArgInt64(args, 0)
	b, errB := common.ArgInt64(args, 1)
	if errA == nil && errB == nil {
		return a + b, nil
	}

	fa, err := common.ArgFloat64(args, 0)
	if err != nil {
		return nil, err
	}
	fb, err := common.ArgFloat64(args, 1)
	if err != nil {
		return nil, err
	}
	return fa + fb, nil
}

// ledPower switches the LED and returns the previous state
func ledPower(_ context.Context, args []any) (any, error) {
	if err := common.ExpectArgs(args, 1); err != nil {
		return nil, err
	}
	on, err := common.ArgBool(args, 0)
	if err != nil {
		return nil, err
	}
	return ledOn.Swap(on), nil
}

func echo(_ context.Context, args []any) (any, error) {
	return args, nil
}

// newAdder ignores the placeholder handle and returns the handle of a new instance
func newAdder(context.Context, []any) (any, error) {
	return adders.Add(&adder{}), nil
}

// adderAdd returns a+b and adds it to the running total of the instance
func adderAdd(_ context.Context, args []any) (any, error) {
	a, rest, err := adders.Receiver(args)
	if err != nil {
		return nil, err
	}
	if err := common.ExpectArgs(rest, 2); err != nil {
		return nil, err
	}
	x, err := common.ArgInt64(rest, 0)
	if err != nil {
		return nil, err
	}
	y, err := common.ArgInt64(rest, 1)
	if err != nil {
		return nil, err
	}
	return a.add(x + y), nil
}

func adderTotal(_ context.Context, args []any) (any, error) {
	a, _, err := adders.Receiver(args)
	if err != nil {
		return nil, err
	}
	return a.sum(), nil
}
