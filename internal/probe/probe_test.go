package probe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/statusprobe/internal/probe"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

var _ = Describe("Prober", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	strategies := []struct {
		name string
		make func(*http.Client, time.Duration) probe.Prober
	}{
		{"cancelling", probe.NewCancelProber},
		{"racing", probe.NewRaceProber},
	}

	for _, s := range strategies {
		s := s

		Describe(s.name+" strategy", func() {
			It("reports success and elapsed time for a reachable endpoint", func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

				p := s.make(server.Client(), 2*time.Second)
				res := p.Probe(context.Background(), server.URL)

				Expect(res.OK).To(BeTrue())
				Expect(res.RTT).To(BeNumerically(">=", 0))
				Expect(res.RTT).To(BeNumerically("<", 2*time.Second))
			})

			It("counts any completed round trip as success regardless of status code", func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusServiceUnavailable)
				}))

				p := s.make(server.Client(), 2*time.Second)
				res := p.Probe(context.Background(), server.URL)

				Expect(res.OK).To(BeTrue())
			})

			It("collapses connection errors into a failed result", func() {
				dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
				url := dead.URL
				dead.Close()

				p := s.make(&http.Client{}, time.Second)
				res := p.Probe(context.Background(), url)

				Expect(res.OK).To(BeFalse())
				Expect(res.RTT).To(BeZero())
			})

			It("fails when the deadline elapses first and returns promptly", func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(400 * time.Millisecond)
				}))

				p := s.make(server.Client(), 50*time.Millisecond)

				start := time.Now()
				res := p.Probe(context.Background(), server.URL)

				Expect(res.OK).To(BeFalse())
				Expect(time.Since(start)).To(BeNumerically("<", 300*time.Millisecond))
			})

			It("appends a cache-bypass timestamp parameter", func() {
				queries := make(chan string, 1)
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					queries <- r.URL.Query().Get("t")
				}))

				p := s.make(server.Client(), 2*time.Second)
				res := p.Probe(context.Background(), server.URL+"/health?source=probe")

				Expect(res.OK).To(BeTrue())
				Expect(queries).To(Receive(Not(BeEmpty())))
			})

			It("treats an unparseable URL as a failed attempt", func() {
				p := s.make(&http.Client{}, time.Second)
				res := p.Probe(context.Background(), "://no-scheme")

				Expect(res.OK).To(BeFalse())
			})
		})
	}

	Describe("New", func() {
		It("builds a prober for the default transport", func() {
			p := probe.New(&http.Client{}, time.Second)
			Expect(p).NotTo(BeNil())
		})

		It("builds a prober for a custom round tripper", func() {
			client := &http.Client{
				Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
					return nil, http.ErrHandlerTimeout
				}),
			}

			p := probe.New(client, time.Second)
			Expect(p).NotTo(BeNil())

			res := p.Probe(context.Background(), "http://localhost:1")
			Expect(res.OK).To(BeFalse())
		})
	})
})
