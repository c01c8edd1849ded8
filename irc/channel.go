package irc

import (
	"bufio"
	"context"
	"fmt"
	"net"

	"golang.org/x/time/rate"
)

const chanCapacity = 64

// ChanInOut reads and writes IRC messages on conn from two goroutines.  The in
// channel is closed when the connection breaks.  Closing out closes conn.
//
// When limiter is not nil, outgoing messages wait for it, so that the server
// does not disconnect us for flooding.
func ChanInOut(conn net.Conn, limiter *rate.Limiter) (in <-chan Message, out chan<- Message) {
	in_ := make(chan Message, chanCapacity)
	out_ := make(chan Message, chanCapacity)

	go func() {
		r := bufio.NewScanner(conn)
		for r.Scan() {
			line := r.Text()
			msg, err := ParseMessage(line)
			if err != nil {
				continue
			}
			in_ <- msg
		}
		close(in_)
	}()

	go func() {
		for msg := range out_ {
			if limiter != nil {
				if err := limiter.Wait(context.Background()); err != nil {
					break
				}
			}
			_, err := fmt.Fprintf(conn, "%s\r\n", msg.String())
			if err != nil {
				break
			}
		}
		_ = conn.Close()
		// Drain so that senders never block on a dead connection.
		for range out_ {
		}
	}()

	return in_, out_
}
