// Slowserver is a simple test HTTP endpoint used for exercising the prober.
// It answers every request after a fixed delay so a target can be pushed
// across the up/degraded/down thresholds.
//
// Usage:
//
//	go run slowserver.go -port 8081 -delay 300ms -failrate 0.5
//
// The server logs all requests, including the cache-bypass timestamp the
// prober appends.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	delay := flag.Duration("delay", 0, "artificial response delay")
	failRate := flag.Float64("failrate", 0, "fraction of requests answered with a connection reset")

	flag.Parse()

	handler := func(w http.ResponseWriter, r *http.Request) {
		log.Printf("probe from %s: %s?%s", r.RemoteAddr, r.URL.Path, r.URL.RawQuery)

		if *failRate > 0 && rand.Float64() < *failRate {
			// Hijack and drop the connection to simulate a network error.
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, err := hj.Hijack()
				if err == nil {
					conn.Close()
					return
				}
			}
			http.Error(w, "simulated failure", http.StatusBadGateway)
			return
		}

		if *delay > 0 {
			time.Sleep(*delay)
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("slowserver listening on %s (delay=%s failrate=%.2f)", addr, *delay, *failRate)
	log.Fatal(http.ListenAndServe(addr, http.HandlerFunc(handler)))
}
