// Package mpdclient wraps the gompd protocol client with the connection
// discipline the rest of clerk expects: a single shared connection, pinged
// before every use and redialed transparently once the daemon has gone away.
//
// The configured timeout bounds dialing. Individual protocol commands are
// not deadlined; MPD answers them from memory and the connection is dropped
// and redialed on the next call if the daemon stalls.
package mpdclient
