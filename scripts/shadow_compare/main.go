// Command shadow_compare replays read-only requests against the legacy
// admission backend and this service, and reports response divergence. It is
// meant to run during the cut-over window while both backends share a
// database.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

// Volatile fields differ legitimately between backends and are dropped before
// comparing bodies.
var volatileKeys = map[string]struct{}{
	"updated_at": {},
	"created_at": {},
	"called_at":  {},
	"issued_at":  {},
	"request_id": {},
}

var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/health", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/admin/unassigned-students", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/admin/reassignment-queue", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/students", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/dashboard/summary", Critical: false},
	{Method: http.MethodGet, Path: "/api/v1/audit-logs", Critical: false},
}

type result struct {
	target       target
	legacyStatus int
	newStatus    int
	statusMatch  bool
	bodyMatch    bool
	err          error
}

func main() {
	var (
		newBase     string
		legacyBase  string
		targetsPath string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&newBase, "new-base", "http://localhost:8080", "new API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "legacy API base URL")
	flag.StringVar(&targetsPath, "targets", "", "optional JSON file overriding the built-in target list")
	flag.StringVar(&token, "token", "", "bearer token sent to both backends")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	client := &http.Client{Timeout: timeout}
	breaking := 0
	for _, tgt := range targets {
		res := compare(client, newBase, legacyBase, token, tgt)
		report(res)
		if tgt.Critical && (res.err != nil || !res.statusMatch || !res.bodyMatch) {
			breaking++
		}
	}

	fmt.Printf("breaking diffs: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg struct {
		Targets []target `json:"targets"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compare(client *http.Client, newBase, legacyBase, token string, tgt target) result {
	res := result{target: tgt}

	newStatus, newBody, err := fetch(client, newBase, token, tgt)
	if err != nil {
		res.err = fmt.Errorf("new backend: %w", err)
		return res
	}
	legacyStatus, legacyBody, err := fetch(client, legacyBase, token, tgt)
	if err != nil {
		res.err = fmt.Errorf("legacy backend: %w", err)
		return res
	}

	res.newStatus = newStatus
	res.legacyStatus = legacyStatus
	res.statusMatch = newStatus == legacyStatus
	res.bodyMatch = bodiesEqual(newBody, legacyBody)
	return res
}

func fetch(client *http.Client, base, token string, tgt target) (int, []byte, error) {
	url := strings.TrimRight(base, "/") + tgt.Path
	req, err := http.NewRequest(tgt.Method, url, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for key := range volatileKeys {
			delete(val, key)
		}
		for k, child := range val {
			normalize(&child)
			val[k] = child
		}
	case []interface{}:
		for i, child := range val {
			normalize(&child)
			val[i] = child
		}
	}
}

func report(res result) {
	status := "OK"
	switch {
	case res.err != nil:
		status = "ERROR: " + res.err.Error()
	case !res.statusMatch:
		status = fmt.Sprintf("STATUS MISMATCH (legacy=%d new=%d)", res.legacyStatus, res.newStatus)
	case !res.bodyMatch:
		status = "BODY MISMATCH"
	}
	fmt.Printf("%-6s %-45s %s\n", res.target.Method, res.target.Path, status)
}
