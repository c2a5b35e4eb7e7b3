package sampler_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/statusprobe/internal/probe"
	"github.com/angeloszaimis/statusprobe/internal/sampler"
)

// scriptedProber replays a fixed sequence of results, one per attempt.
type scriptedProber struct {
	mutex   sync.Mutex
	results []probe.Result
	calls   int
}

func (p *scriptedProber) Probe(ctx context.Context, rawURL string) probe.Result {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var res probe.Result
	if p.calls < len(p.results) {
		res = p.results[p.calls]
	}
	p.calls++

	return res
}

func (p *scriptedProber) callCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.calls
}

func ok(ms int) probe.Result {
	return probe.Result{OK: true, RTT: time.Duration(ms) * time.Millisecond}
}

func fail() probe.Result {
	return probe.Result{}
}

var _ = Describe("Run", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("always exhausts the attempt budget on success", func() {
		p := &scriptedProber{results: []probe.Result{ok(10), ok(20), ok(30)}}

		agg := sampler.Run(ctx, p, "http://example.test", sampler.Options{SampleCount: 3})

		Expect(p.callCount()).To(Equal(3))
		Expect(agg.Attempts).To(Equal(3))
		Expect(agg.Successes).To(Equal(3))
	})

	It("always exhausts the attempt budget on failure", func() {
		p := &scriptedProber{results: []probe.Result{fail(), fail(), fail(), fail(), fail()}}

		agg := sampler.Run(ctx, p, "http://example.test", sampler.Options{SampleCount: 5})

		Expect(p.callCount()).To(Equal(5))
		Expect(agg.Attempts).To(Equal(5))
		Expect(agg.Successes).To(Equal(0))
		Expect(agg.Reachable).To(BeFalse())
	})

	It("discards failed attempts and reduces the rest to their median", func() {
		p := &scriptedProber{results: []probe.Result{ok(220), fail(), ok(90), ok(310)}}

		agg := sampler.Run(ctx, p, "http://example.test", sampler.Options{SampleCount: 4})

		Expect(agg.Reachable).To(BeTrue())
		Expect(agg.Successes).To(Equal(3))
		Expect(agg.Attempts).To(Equal(4))
		Expect(agg.RTT).To(Equal(220 * time.Millisecond))
	})

	It("reports unreachable when every attempt fails", func() {
		p := &scriptedProber{results: []probe.Result{fail(), fail(), fail()}}

		agg := sampler.Run(ctx, p, "http://example.test", sampler.Options{SampleCount: 3})

		Expect(agg.Reachable).To(BeFalse())
		Expect(agg.RTT).To(BeZero())
	})

	It("invokes the attempt observer once per attempt", func() {
		p := &scriptedProber{results: []probe.Result{ok(10), fail(), ok(30)}}

		var observed []probe.Result
		opts := sampler.Options{
			SampleCount: 3,
			OnAttempt: func(res probe.Result) {
				observed = append(observed, res)
			},
		}

		sampler.Run(ctx, p, "http://example.test", opts)

		Expect(observed).To(HaveLen(3))
		Expect(observed[0].OK).To(BeTrue())
		Expect(observed[1].OK).To(BeFalse())
	})

	It("still performs every attempt when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		p := &scriptedProber{results: []probe.Result{fail(), fail(), fail()}}

		agg := sampler.Run(cancelled, p, "http://example.test", sampler.Options{
			SampleCount:       3,
			InterAttemptDelay: 10 * time.Millisecond,
		})

		Expect(p.callCount()).To(Equal(3))
		Expect(agg.Attempts).To(Equal(3))
	})

	It("spaces attempts with the configured delay but not after the last", func() {
		p := &scriptedProber{results: []probe.Result{ok(1), ok(1), ok(1)}}

		start := time.Now()
		sampler.Run(ctx, p, "http://example.test", sampler.Options{
			SampleCount:       3,
			InterAttemptDelay: 50 * time.Millisecond,
		})
		elapsed := time.Since(start)

		// Two gaps for three attempts.
		Expect(elapsed).To(BeNumerically(">=", 100*time.Millisecond))
		Expect(elapsed).To(BeNumerically("<", 250*time.Millisecond))
	})
})

var _ = Describe("Median", func() {
	ms := func(values ...int) []time.Duration {
		out := make([]time.Duration, len(values))
		for i, v := range values {
			out[i] = time.Duration(v) * time.Millisecond
		}
		return out
	}

	DescribeTable("lower-middle median",
		func(samples []time.Duration, expected time.Duration) {
			Expect(sampler.Median(samples)).To(Equal(expected))
		},
		Entry("odd count", ms(220, 90, 310), 220*time.Millisecond),
		Entry("even count takes the lower middle", ms(100, 300), 100*time.Millisecond),
		Entry("single sample", ms(42), 42*time.Millisecond),
		Entry("four samples", ms(400, 100, 300, 200), 200*time.Millisecond),
		Entry("empty", nil, time.Duration(0)),
	)

	It("does not mutate the caller's slice", func() {
		samples := ms(300, 100, 200)
		sampler.Median(samples)

		Expect(samples).To(Equal(ms(300, 100, 200)))
	})
})
