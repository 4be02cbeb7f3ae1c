package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	head := flag.String("head", "Curcumin", "head entity for the recommend check")
	flag.Parse()

	serperKey := os.Getenv("SERPER_API_KEY")
	headers := map[string]string{}
	if serperKey != "" {
		headers["x-serper-key"] = serperKey
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		headers["x-openai-key"] = key
	}

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Health...")
	if !sendRequest(http.MethodGet, *baseURL+"/healthz", nil, nil) {
		fmt.Println("FAILED: Health")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health")

	fmt.Println("2. Verify (graph)...")
	verifyPayload := map[string]interface{}{
		"triples": [][]string{
			{"Omega-3", "reduces", "Inflammation"},
			{"Curcumin", "protects", "Liver"},
		},
	}
	if !sendRequest(http.MethodPost, *baseURL+"/api/verify/graph", verifyPayload, nil) {
		fmt.Println("FAILED: Verify (graph)")
		os.Exit(1)
	}
	fmt.Println("PASSED: Verify (graph)")

	fmt.Println("3. Recommend (graph)...")
	recommendPayload := map[string]interface{}{"head": *head, "k": 5}
	if !sendRequest(http.MethodPost, *baseURL+"/api/recommend/graph", recommendPayload, nil) {
		fmt.Println("FAILED: Recommend (graph)")
		os.Exit(1)
	}
	fmt.Println("PASSED: Recommend (graph)")

	if serperKey == "" {
		fmt.Println("SERPER_API_KEY not set, skipping web evidence checks")
		return
	}

	fmt.Println("4. Verify (evidence)...")
	verifyPayload["mode"] = "light"
	if !sendRequest(http.MethodPost, *baseURL+"/api/verify/evidence", verifyPayload, headers) {
		fmt.Println("FAILED: Verify (evidence)")
		os.Exit(1)
	}
	fmt.Println("PASSED: Verify (evidence)")

	fmt.Println("5. Recommend (search)...")
	if !sendRequest(http.MethodPost, *baseURL+"/api/recommend/search", recommendPayload, headers) {
		fmt.Println("FAILED: Recommend (search)")
		os.Exit(1)
	}
	fmt.Println("PASSED: Recommend (search)")
}

func sendRequest(method, url string, payload interface{}, headers map[string]string) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	fmt.Printf("Response: %s\n", string(respBody))

	return true
}
