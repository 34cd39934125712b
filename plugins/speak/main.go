// Package main provides a sink that speaks each committed gesture aloud.
// It uses "say" on macOS and espeak (or spd-say) on Linux.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the sink executor.
type Request struct {
	Event      string `json:"event"`
	Gesture    string `json:"gesture"`
	Text       string `json:"text"`
	Transcript string `json:"transcript"`
	SessionID  string `json:"session_id"`
}

// Response represents the output to the sink executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

var errNoEngine = errors.New("no speech engine found (install say, espeak or spd-say)")

// engines lists speech commands per OS in preference order.
var engines = map[string][]string{
	"darwin": {"say"},
	"linux":  {"espeak-ng", "espeak", "spd-say"},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Event != "commit" || req.Text == "" {
		writeSuccessResponse(nil)
		return
	}

	engine, err := findEngine(runtime.GOOS, exec.LookPath)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if out, err := exec.Command(engine, req.Text).CombinedOutput(); err != nil {
		writeErrorResponse(fmt.Sprintf("%s failed: %v: %s", engine, err, out))
		return
	}

	data, _ := json.Marshal(map[string]string{"engine": engine, "spoken": req.Text})
	writeSuccessResponse(data)
}

// findEngine returns the first available speech command for goos.
func findEngine(goos string, lookPath func(string) (string, error)) (string, error) {
	for _, name := range engines[goos] {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errNoEngine
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse(data json.RawMessage) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}
