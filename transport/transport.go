// Package transport feeds the hub from the vehicle's message stream:
// newline-delimited JSON envelopes over UDP, or any io.Reader for
// replaying logged dives.
package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"

	scalardata "github.com/lauralindzey/nui-scalar-data"
	"github.com/lauralindzey/nui-scalar-data/metrics"
)

// An Envelope is one message off the wire. Fields carries the decoded
// scalar members of the payload; nested and array-valued members are
// left out by the publisher.
type Envelope struct {
	Channel string             `json:"channel"`
	MsgType string             `json:"type"`
	Utime   int64              `json:"utime"`
	Fields  map[string]float64 `json:"fields"`
}

func (e Envelope)Message() scalardata.Message {
	return scalardata.Message{
		Channel: e.Channel,
		MsgType: e.MsgType,
		Utime:   e.Utime,
		Fields:  e.Fields,
	}
}

func ParseEnvelope(data []byte) (Envelope, error) {
	e := Envelope{}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("envelope parse: %v", err)
	}
	if e.Channel == "" || e.Utime == 0 {
		return e, fmt.Errorf("envelope missing channel or utime: %q", data)
	}
	return e, nil
}

// ListenUDP receives one envelope per datagram and hands each to the
// handler, until the context is cancelled. Malformed datagrams are
// counted and dropped.
func ListenUDP(ctx context.Context, addr string, handler func(scalardata.Message)) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil { return err }
	defer conn.Close()

	// Cancellation unblocks ReadFrom by closing the socket; the done
	// channel stops the watcher when we leave on a read error instead.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, 65536)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		e,err := ParseEnvelope(buf[:n])
		if err != nil {
			metrics.EnvelopeMalformed()
			continue
		}
		handler(e.Message())
	}
}

// ReadStream consumes newline-delimited envelopes from the reader until
// EOF. Malformed lines are counted and skipped.
// Beware ! Logged lines can be long, and bufio.Scanner's default
// buffersize will cause it to silently fail; so we give it a big one.
func ReadStream(r io.Reader, handler func(scalardata.Message)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 65536), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 { continue }

		e,err := ParseEnvelope(line)
		if err != nil {
			metrics.EnvelopeMalformed()
			continue
		}
		handler(e.Message())
	}

	return scanner.Err()
}
