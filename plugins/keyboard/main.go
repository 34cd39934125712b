// Package main provides a sink that types each committed gesture into the
// focused application. It uses AppleScript on macOS and xdotool on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
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

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Event != "commit" || req.Text == "" {
		writeSuccessResponse()
		return
	}

	// Separate words the same way the transcript does visually.
	text := req.Text + " "

	var err error
	switch runtime.GOOS {
	case "darwin":
		err = runAppleScript(buildKeystrokeScript(text))
	case "linux":
		err = run("xdotool", "type", "--delay", "20", text)
	default:
		err = fmt.Errorf("typing is not supported on %s", runtime.GOOS)
	}
	if err != nil {
		writeErrorResponse(fmt.Sprintf("typing %q failed: %v", req.Text, err))
		return
	}

	writeSuccessResponse()
}

// buildKeystrokeScript generates an AppleScript that types text.
func buildKeystrokeScript(text string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(text)
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escaped)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	return run("osascript", "-e", script)
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
