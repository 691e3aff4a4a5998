//go:build validate_payload
// +build validate_payload

package main

import (
	"fmt"
	"os"

	"github.com/mozilla-ai/mcpcat/internal/catalog"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(
			os.Stderr,
			"Usage: go run -tags=validate_payload ./tools/validate/payload.go <%s|%s|%s> <data.json>\n",
			catalog.PayloadServerList,
			catalog.PayloadServerDetail,
			catalog.PayloadHealth,
		)
		os.Exit(1)
	}

	payload := catalog.Payload(os.Args[1])
	dataFile := os.Args[2]

	data, err := os.ReadFile(dataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading data file: %v\n", err)
		os.Exit(1)
	}

	if err := catalog.ValidatePayload(payload, data); err != nil {
		fmt.Println("❌ Validation failed:")
		fmt.Printf("  - %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Catalog %s payload validation succeeded\n", payload)
}
