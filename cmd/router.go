package main

import (
	"net/http"

	"github.com/angeloszaimis/statusprobe/internal/metrics"
	"github.com/angeloszaimis/statusprobe/internal/render"
)

func setupRouter(board *render.Board, collector *metrics.Collector, stream *render.StreamSink) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", board.Handler())
	mux.HandleFunc("/metrics", collector.Handler())
	mux.HandleFunc("/ws", stream.Handler())

	return mux
}
