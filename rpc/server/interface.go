package server

import (
	"context"
)

// ProcedureFunc is a procedure the peer can invoke over the link.
// args is the decoded argument list of the request, the returned value becomes
// the payload of the response. A non-nil error is sent as error description instead.
type ProcedureFunc func(ctx context.Context, args []any) (any, error)

// Middleware wraps a procedure at bind time, name is the name it is bound under
type Middleware func(name string, next ProcedureFunc) ProcedureFunc

// IProcedureRegistry maps procedure names to local implementations.
// It is safe for concurrent use, procedures may be bound while the link is running.
type IProcedureRegistry interface {
	// Bind registers fn under name. Empty names, nil functions and duplicates are rejected.
	Bind(name string, fn ProcedureFunc) error
	// BindMethod registers fn as method of class, i.e. under lower(class)+"_"+method.
	// The first argument of a method call is the instance handle.
	BindMethod(class, method string, fn ProcedureFunc) error
	// BindConstructor registers fn as constructor of class, i.e. under lower(class)+"_new"
	BindConstructor(class string, fn ProcedureFunc) error
	// Lookup returns the procedure bound under name
	Lookup(name string) (ProcedureFunc, bool)
	// Names returns the sorted names of all bound procedures
	Names() []string
}
