// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// FakeNode is a JSON-RPC endpoint answering each method with a fixed
// result. Unknown methods get a -32601 error.
func FakeNode(t *testing.T, results map[string]any) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := results[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "the method " + req.Method + " does not exist"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(s.Close)
	return s
}

// FakeHeader is the smallest block JSON a header decodes from
func FakeHeader(number, timestamp string) map[string]any {
	zero32 := "0x0000000000000000000000000000000000000000000000000000000000000000"
	return map[string]any{
		"parentHash":       zero32,
		"sha3Uncles":       zero32,
		"miner":            "0x0000000000000000000000000000000000000000",
		"stateRoot":        zero32,
		"transactionsRoot": zero32,
		"receiptsRoot":     zero32,
		"logsBloom":        "0x" + strings.Repeat("0", 512),
		"difficulty":       "0x0",
		"number":           number,
		"gasLimit":         "0x1c9c380",
		"gasUsed":          "0x0",
		"timestamp":        timestamp,
		"extraData":        "0x",
	}
}
