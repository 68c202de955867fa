package main

import (
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/cbrief/chain-daily/internal/transport/server"
)

func init() {
	// Register HTTP function for scheduled triggers and manual runs
	functions.HTTP("ChainDaily", ChainDaily)
}

// ChainDaily is the HTTP entrypoint for Cloud Functions deployments.
func ChainDaily(w http.ResponseWriter, r *http.Request) {
	server.HandleRequest(w, r)
}

func main() {
	// This main function is required for Cloud Functions
	// The actual function registration happens in init()
}
