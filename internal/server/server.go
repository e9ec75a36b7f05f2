// Package server exposes the analysis pipeline over HTTP: a Connect unary
// endpoint for one-shot analyze calls and a websocket endpoint that streams
// stage progress. Stages are stateless beyond their configuration, so one
// Analyzer instance is shared across requests; every request gets its own
// analysis state.
package server

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"fishbone/internal/fishbone"
)

// AnalyzeProcedure is the Connect route of the analyze RPC.
const AnalyzeProcedure = "/fishbone.v1.AnalysisService/Analyze"

type AnalyzeRequest struct {
	Effect     string   `json:"effect"`
	Categories []string `json:"categories,omitempty"`
}

type Server struct {
	analyzer *fishbone.Analyzer
}

func New(a *fishbone.Analyzer) *Server {
	return &Server{analyzer: a}
}

// Mux mounts all endpoints.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(AnalyzeProcedure, connect.NewUnaryHandler(
		AnalyzeProcedure,
		s.analyze,
		connect.WithCodec(jsonCodec{}),
	))
	mux.HandleFunc("/api/watch", s.handleWatch)
	return mux
}

func (s *Server) analyze(ctx context.Context, req *connect.Request[AnalyzeRequest]) (*connect.Response[fishbone.Result], error) {
	res, err := s.analyzer.Analyze(ctx, req.Msg.Effect, req.Msg.Categories)
	if err != nil {
		if errors.Is(err, fishbone.ErrEmptyEffect) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&res), nil
}
