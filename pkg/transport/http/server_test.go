package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	gohttp "net/http"
	"testing"
	"time"

	"github.com/sessionlab/poolchat/pkg/api"
	"github.com/sessionlab/poolchat/pkg/transport"
)

func TestServerStartsAndAcceptsRequests(t *testing.T) {
	handler := transport.ChatHandlerFunc(func(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{
			Output:         "hello there",
			ConversationID: req.ConversationID,
			Classification: api.ClassificationConversation,
		}, nil
	})

	srv := NewServer(handler, WithAddr("127.0.0.1:0"), WithMetricsPath(""))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	addr := ln.Addr().String()

	go srv.ServeOn(ln)
	time.Sleep(50 * time.Millisecond)

	body, _ := json.Marshal(api.ChatRequest{Message: "hi"})
	resp, err := gohttp.Post("http://"+addr+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != gohttp.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, gohttp.StatusOK)
	}

	var got api.ChatResponse
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Output != "hello there" {
		t.Errorf("output = %q, want %q", got.Output, "hello there")
	}
	if !api.ValidateConversationID(got.ConversationID) {
		t.Errorf("conversation ID %q should be minted by the server", got.ConversationID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

func TestServerGracefulShutdown(t *testing.T) {
	slow := transport.ChatHandlerFunc(func(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
		select {
		case <-time.After(200 * time.Millisecond):
			return &api.ChatResponse{
				Output:         "done",
				ConversationID: req.ConversationID,
				Classification: api.ClassificationConversation,
			}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	srv := NewServer(slow,
		WithAddr("127.0.0.1:0"),
		WithMetricsPath(""),
		WithShutdownTimeout(5*time.Second),
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	addr := ln.Addr().String()

	go srv.ServeOn(ln)
	time.Sleep(50 * time.Millisecond)

	responseCh := make(chan int, 1)
	go func() {
		body, _ := json.Marshal(api.ChatRequest{Message: "hi"})
		resp, err := gohttp.Post("http://"+addr+"/chat", "application/json", bytes.NewReader(body))
		if err != nil {
			responseCh <- 0
			return
		}
		defer resp.Body.Close()
		responseCh <- resp.StatusCode
	}()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)

	status := <-responseCh
	if status != gohttp.StatusOK {
		t.Errorf("slow request status = %d, want %d", status, gohttp.StatusOK)
	}
}

func TestServerFunctionalOptions(t *testing.T) {
	handler := transport.ChatHandlerFunc(func(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{}, nil
	})

	srv := NewServer(handler,
		WithAddr(":9999"),
		WithMaxBodySize(1024),
		WithShutdownTimeout(10*time.Second),
		WithMetricsPath("/internal/metrics"),
		WithDebugInfo("https://chat.example", "https://pool.example", true),
	)

	if srv.config.Addr != ":9999" {
		t.Errorf("addr = %q, want %q", srv.config.Addr, ":9999")
	}
	if srv.config.MaxBodySize != 1024 {
		t.Errorf("max body size = %d, want %d", srv.config.MaxBodySize, 1024)
	}
	if srv.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want %v", srv.config.ShutdownTimeout, 10*time.Second)
	}
	if srv.config.MetricsPath != "/internal/metrics" {
		t.Errorf("metrics path = %q", srv.config.MetricsPath)
	}
	if srv.config.ChatEndpoint != "https://chat.example" || srv.config.PoolEndpoint != "https://pool.example" {
		t.Errorf("debug endpoints = %q / %q", srv.config.ChatEndpoint, srv.config.PoolEndpoint)
	}
}
