// Package client implements the remote-object proxy model on top of a link.
// It lets a controller address instances that live on the peer by an opaque handle
// without building request messages by hand.
//
// The package focuses on:
//   - Naming remote procedures by class and method
//   - Constructing peer-side instances and remembering their handles
//   - Calling instance and class level methods by name
//
// Key Components:
//
//   - ICaller: The part of *link.Link the proxies need (Call and Send). Tests substitute
//     a recording fake.
//
//   - RemoteClass: Proxy for a class. New calls lower(class)+"_new" with the placeholder
//     handle 0 in front of the arguments and wraps the returned handle. Invoke issues a
//     class level call without a handle.
//
//   - RemoteObject: Proxy for an instance. Invoke and Send call lower(class)+"_"+method
//     with the handle as first argument.
//
// Usage Example:
//
//	l, _ := link.Open(config, serial.NewSerialTransport(), serializer.NewMsgpackSerializer(), nil)
//	defer l.Close()
//
//	adder := client.NewRemoteClass(l, "Adder")
//	obj, _ := adder.New(ctx)                   // [REQUEST, 0, "adder_new", [0]]
//	sum, _ := obj.Invoke(ctx, "add", 12, 34)   // [REQUEST, 1, "adder_add", [handle, 12, 34]]
//
// There is no release protocol, handles stay valid on the peer until it restarts.
// Proxies are safe for concurrent use if the caller is.
package client
