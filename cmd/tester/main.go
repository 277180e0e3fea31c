// Command tester probes the health endpoint of a running sms forwarder.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	grpc2 "sms-forwarder/grpc"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	address := flag.String("addr", "localhost:8080", "address of the sms forwarder")
	timeout := flag.Duration("timeout", 3*time.Second, "probe timeout")
	flag.Parse()

	conn, err := grpc.NewClient(*address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Cannot connect: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: grpc2.ServiceName})
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	fmt.Println(resp.GetStatus().String())
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		log.Fatal("service is not serving")
	}
}
