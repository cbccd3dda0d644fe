// Package notify streams build progress to a socket.io server. It plugs into
// the taskgraph as an Observer; a notification problem is logged and never
// fails the build.
package notify
