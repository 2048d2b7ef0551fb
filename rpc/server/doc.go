// Package server implements the local side of a link: the procedures the peer may invoke.
// Procedures are plain Go functions bound by name in a registry that the link's dispatch
// loop consults for every inbound REQUEST and NOTIFY.
//
// The package focuses on:
//   - Binding free functions, constructors and methods under their wire names
//   - Cross-cutting concerns (logging, rate limiting, deadlines) as middlewares
//   - Handle allocation for objects created on behalf of the peer
//
// Key Components:
//
//   - IProcedureRegistry / ProcedureRegistry: Concurrent name -> ProcedureFunc map.
//     Binding is allowed while a link is running. Methods are bound as
//     lower(class)+"_"+method, constructors as lower(class)+"_new".
//
//   - Middleware: Wraps a procedure at bind time. LoggingMiddleware, RateLimitMiddleware
//     (token bucket from golang.org/x/time/rate) and TimeoutMiddleware are provided,
//     Chain combines several.
//
//   - ObjectTable: Allocates handles (starting at 1) for instances and resolves the
//     receiver of a method call from its first argument.
//
// Usage Example:
//
//	registry := server.NewProcedureRegistry(server.LoggingMiddleware())
//
//	registry.Bind("add", func(ctx context.Context, args []any) (any, error) {
//	  if err := common.ExpectArgs(args, 2); err != nil {
//	    return nil, err
//	  }
//	  a, _ := common.ArgInt64(args, 0)
//	  b, _ := common.ArgInt64(args, 1)
//	  return a + b, nil
//	})
//
// Thread Safety:
//
//	The registry and the object table are safe for concurrent use. Procedures are invoked
//	on the dispatch goroutine of the link and should return quickly, long running work
//	belongs into TimeoutMiddleware or a goroutine of its own.
package server
