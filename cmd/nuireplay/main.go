// Replays a logged dive (newline-delimited JSON envelopes) against a
// running daemon, paced by the message timestamps.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/lauralindzey/nui-scalar-data/transport"
)

var (
	fFile string
	fAddr string
	fRate float64
)

func init() {
	flag.StringVar(&fFile, "file", "", "logfile of JSON envelopes, one per line")
	flag.StringVar(&fAddr, "addr", "localhost:9870", "daemon's UDP address")
	flag.Float64Var(&fRate, "rate", 1.0, "playback speed multiplier (0 == flat out)")
	flag.Parse()
}

func main() {
	if fFile == "" {
		log.Fatal("need -file")
	}

	f,err := os.Open(fFile)
	if err != nil { log.Fatal(err) }
	defer f.Close()

	conn,err := net.Dial("udp", fAddr)
	if err != nil { log.Fatal(err) }
	defer conn.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 65536), 1024*1024)

	n, skipped := 0, 0
	var prevUtime int64

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 { continue }

		e,err := transport.ParseEnvelope(line)
		if err != nil {
			skipped++
			continue
		}

		if fRate > 0 && prevUtime > 0 && e.Utime > prevUtime {
			delta := time.Duration(float64(e.Utime-prevUtime) / fRate) * time.Microsecond
			time.Sleep(delta)
		}
		prevUtime = e.Utime

		if _,err := conn.Write(line); err != nil {
			log.Fatalf("send to %s: %v", fAddr, err)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("sent %d envelopes to %s (%d skipped)\n", n, fAddr, skipped)
}
