package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

const reaperInterval = time.Minute

func main() {
	config := MustLoadConfig()
	clock := clockwork.NewRealClock()

	registry := NewRegistry(clock, config.SessionTTL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.RunReaper(ctx, reaperInterval)

	resume := NewSeatResume(config.JwtSecret, config.SessionTTL)
	handler := NewHTTPServer(registry, config, resume)

	LogStartedServer(config.Port)
	http.ListenAndServe(":"+config.Port, handler)
}
