package server

import (
	"fmt"
	"slices"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// NewProcedureRegistry creates an empty registry.
// Every procedure bound later is wrapped with the middlewares, the first one is the outermost.
func NewProcedureRegistry(middlewares ...Middleware) *ProcedureRegistry {
	return &ProcedureRegistry{
		procedures:  xsync.NewMapOf[string, ProcedureFunc](),
		middlewares: middlewares,
	}
}

// ProcedureRegistry implements IProcedureRegistry on top of a concurrent map
type ProcedureRegistry struct {
	procedures  *xsync.MapOf[string, ProcedureFunc]
	middlewares []Middleware
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IProcedureRegistry)
// --------------------------------------------------------------------------

func (r *ProcedureRegistry) Bind(name string, fn ProcedureFunc) error {
	if name == "" {
		return fmt.Errorf("procedure name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("procedure %q: function must not be nil", name)
	}

	wrapped := fn
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](name, wrapped)
	}

	if _, loaded := r.procedures.LoadOrStore(name, wrapped); loaded {
		return fmt.Errorf("procedure %q is already bound", name)
	}

	Logger.Debugf("Bound procedure %s", name)
	return nil
}

func (r *ProcedureRegistry) BindMethod(class, method string, fn ProcedureFunc) error {
	if class == "" || method == "" {
		return fmt.Errorf("class and method name must not be empty")
	}
	return r.Bind(common.ProcedureName(class, method), fn)
}

func (r *ProcedureRegistry) BindConstructor(class string, fn ProcedureFunc) error {
	if class == "" {
		return fmt.Errorf("class name must not be empty")
	}
	return r.Bind(common.ConstructorName(class), fn)
}

func (r *ProcedureRegistry) Lookup(name string) (ProcedureFunc, bool) {
	return r.procedures.Load(name)
}

func (r *ProcedureRegistry) Names() []string {
	names := make([]string, 0, r.procedures.Size())
	r.procedures.Range(func(name string, _ ProcedureFunc) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

// MustBind is like Bind but panics on error, useful when setting up fixed procedure tables
func (r *ProcedureRegistry) MustBind(name string, fn ProcedureFunc) {
	if err := r.Bind(name, fn); err != nil {
		panic(err)
	}
}
