// Package serial implements the serial port transport of a link, the usual way to reach
// a microcontroller over USB CDC or a UART adapter. It uses go.bug.st/serial and plugs
// into the base package as a client connector, since a serial line has no listening side.
//
// Key Components:
//
//   - clientConnector: Opens the device with the configured mode, applies the read
//     timeout and discards stale input.
//
//   - ListPorts: Enumerates the serial devices with their USB vendor and product ids.
//
//   - ParseMode: Converts common.SerialConf (baud rate, data bits, parity, stop bits)
//     into a serial.Mode and validates it.
//
// A read that times out returns an empty slice, the link keeps reading.
package serial
