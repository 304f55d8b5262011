// Package main implements very simple grpc client that can be used for testing busfactord grpc server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	appGrpc "github.com/m-zajac/busfactor/internal/api/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	serverAddr      = flag.String("s", "localhost:9090", "The server address in the format of host:port")
	language        = flag.String("l", "rust", "Programming language")
	projectsCount   = flag.Int("n", 50, "Number of projects")
	isolateFailures = flag.Bool("i", false, "Report failing projects instead of failing whole request")
	timeout         = flag.Duration("t", 5*time.Minute, "Request timeout")
)

func main() {
	flag.Parse()

	conn, err := grpc.Dial(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	client := appGrpc.NewServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	req := appGrpc.ReportRequest{
		Language:        *language,
		ProjectsCount:   int32(*projectsCount),
		IsolateFailures: *isolateFailures,
	}
	resp, err := client.Report(ctx, &req)
	if err != nil {
		log.Fatalf("server response error: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Fatalf("encoding response to json error: %v", err)
	}
}
