package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8000"

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Intent    string `json:"intent"`
	Source    string `json:"source"`
}

func main() {
	global := flag.NewFlagSet("bookbot", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	source := global.String("source", "both", "source preference: dataset | google | both | ask")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	client := &http.Client{Timeout: 60 * time.Second}

	switch args[0] {
	case "chat":
		runChat(client, *baseURL, *source)
	case "search":
		if len(args) < 2 {
			log.Fatal("usage: bookbot search <query>")
		}
		runSearch(client, *baseURL, *source, strings.Join(args[1:], " "))
	case "details":
		if len(args) < 2 {
			log.Fatal("usage: bookbot details <title>")
		}
		postJSON(client, *baseURL+"/book-details", map[string]any{"title": strings.Join(args[1:], " ")})
	case "extras":
		if len(args) < 2 {
			log.Fatal("usage: bookbot extras <title> [author]")
		}
		payload := map[string]any{"title": args[1]}
		if len(args) > 2 {
			payload["author"] = strings.Join(args[2:], " ")
		}
		postJSON(client, *baseURL+"/book-extras", payload)
	case "health":
		getJSON(client, *baseURL+"/health")
	default:
		printUsage()
		os.Exit(1)
	}
}

// runChat is an interactive loop against POST /chat, keeping the session id
// the server hands back.
func runChat(client *http.Client, baseURL, source string) {
	fmt.Println("bookbot chat (ctrl-d to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		body, err := json.Marshal(map[string]string{
			"message":           message,
			"session_id":        sessionID,
			"source_preference": source,
		})
		if err != nil {
			log.Fatalf("marshal: %v", err)
		}

		resp, err := client.Post(baseURL+"/chat", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("request failed: %v\n", err)
			continue
		}

		var reply chatResponse
		err = json.NewDecoder(resp.Body).Decode(&reply)
		resp.Body.Close()
		if err != nil {
			fmt.Printf("bad response: %v\n", err)
			continue
		}

		sessionID = reply.SessionID
		fmt.Println(reply.Response)
		if reply.Intent != "" {
			fmt.Printf("(intent: %s, source: %s)\n", reply.Intent, reply.Source)
		}
	}
}

func runSearch(client *http.Client, baseURL, source, query string) {
	postJSON(client, baseURL+"/search", map[string]any{
		"query":       query,
		"max_results": 10,
		"source":      source,
	})
}

func postJSON(client *http.Client, url string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	dump(resp.Body)
}

func getJSON(client *http.Client, url string) {
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	dump(resp.Body)
}

// dump pretty-prints a JSON body, or echoes it raw if it isn't JSON.
func dump(r io.Reader) {
	raw, err := io.ReadAll(r)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}
	var buf bytes.Buffer
	if json.Indent(&buf, raw, "", "  ") == nil {
		fmt.Println(buf.String())
		return
	}
	fmt.Println(string(raw))
}

func printUsage() {
	fmt.Println(`usage: bookbot [-api URL] [-source PREF] <command>

commands:
  chat               interactive chat session
  search <query>     structured book search
  details <title>    merged dataset + Google Books details
  extras <title>     scraped reviews, prices and summary
  health             server health probe`)
}
