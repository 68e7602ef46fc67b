package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a3tai/pdf-sheet-extractor/internal/pdf/pdftest"
)

func TestServerToolsRegistration(t *testing.T) {
	server, _ := newTestServer(t)

	response := server.mcpServer.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}

	body := string(raw)
	for _, tool := range []string{"pdf_extract_sheets", "pdf_list_extracts", "pdf_stats_file", "pdf_server_info"} {
		if !strings.Contains(body, `"name":"`+tool+`"`) {
			t.Errorf("tool %s should be registered, got: %s", tool, body)
		}
	}
}

func TestServerIntegration_ExtractThenList(t *testing.T) {
	server, _ := newTestServer(t)

	path := pdftest.WriteFile(t, t.TempDir(), "nomina.pdf",
		"Empleado: Juan Perez",
		"Empleado: Ana Gomez",
	)

	call, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name": "pdf_extract_sheets",
			"arguments": map[string]interface{}{
				"path":        path,
				"identifiers": "Ana Gomez",
				"month":       "Febrero",
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	raw, err := json.Marshal(server.mcpServer.HandleMessage(context.Background(), call))
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	if !strings.Contains(string(raw), "Ana_Gomez_Febrero.pdf") {
		t.Fatalf("extract should be reported, got: %s", raw)
	}

	raw, err = json.Marshal(server.mcpServer.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"pdf_list_extracts","arguments":{}}}`)))
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	if !strings.Contains(string(raw), "Found 1 extract(s)") {
		t.Errorf("listing should contain the new extract, got: %s", raw)
	}
}
