// Package broadcast implements the streaming-client hub using the actor pattern.
//
// The Hub owns the client registry in a single goroutine fed by a command
// channel (no mutexes). Each client is a buffered event channel; a client
// whose channel is full or gone is pruned without blocking delivery to the
// rest. A heartbeat ticker, independent of the poll interval, keeps idle
// connections open and opportunistically detects dead clients.
package broadcast
