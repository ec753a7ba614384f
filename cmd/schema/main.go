package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/ceponatia/copilot-changelog/pkg/config"
)

// emits the JSON schema describing the config file format, for editor
// completion and validation. Output path defaults to schema.json.
func main() {
	out := "schema.json"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	data, err := json.MarshalIndent(jsonschema.Reflect(&config.Config{}), "", "  ")
	if err != nil {
		log.Fatalf("[ERROR] can't marshal config schema: %v", err)
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		log.Fatalf("[ERROR] can't write %s: %v", out, err)
	}
	log.Printf("[INFO] config schema written to %s", out)
}
