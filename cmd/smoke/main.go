// Command smoke walks a running explorer through a full page cycle:
// render, login, upload, explorer and (when a key is given) one chat
// question. Settings come from the environment.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

type envelope struct {
	Success bool                   `json:"success"`
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

type client struct {
	baseURL string
	http    *http.Client
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *client) do(req *http.Request) (*http.Response, *envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return resp, nil, fmt.Errorf("unexpected body: %s", body)
	}
	return resp, &env, nil
}

func (c *client) sendJSON(method, path string, body interface{}) (*http.Response, *envelope, error) {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) upload(path string) (*http.Response, *envelope, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	part.Write(content)
	w.Close()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/dataset/upload", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func step(title string, resp *http.Response, env *envelope, err error) *envelope {
	color.Yellow("\n%s", title)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if !env.Success {
		color.Red("Status: %s (%s)", resp.Status, env.Message)
		os.Exit(1)
	}
	color.Green("Status: %s (%s)", resp.Status, env.Message)
	return env
}

func main() {
	jar, _ := cookiejar.New(nil)
	c := &client{
		baseURL: getEnv("SMOKE_BASE_URL", "http://localhost:3000/api"),
		http:    &http.Client{Jar: jar, Timeout: 3 * time.Minute},
	}

	color.Cyan("Explorer smoke test against %s", c.baseURL)

	resp, env, err := c.sendJSON(http.MethodGet, "/page", nil)
	page := step("1. Render page", resp, env, err)
	fmt.Printf("variant %v\n", page.Data["page"].(map[string]interface{})["variant"])

	if _, ok := page.Data["auth"]; ok {
		resp, env, err = c.sendJSON(http.MethodPost, "/auth/login", map[string]string{
			"username": getEnv("SMOKE_USERNAME", "jsmith"),
			"password": getEnv("SMOKE_PASSWORD", "abc"),
		})
		login := step("2. Login", resp, env, err)
		auth := login.Data["auth"].(map[string]interface{})
		if auth["status"] != "authenticated" {
			color.Red("Login rejected: %v", auth["message"])
			os.Exit(1)
		}
		fmt.Println(auth["message"])
	}

	resp, env, err = c.upload(getEnv("SMOKE_FILE", "data/titanic.csv"))
	uploaded := step("3. Upload dataset", resp, env, err)
	dataset := uploaded.Data["dataset"].(map[string]interface{})
	fmt.Printf("%v: %v rows x %v columns\n", dataset["name"], dataset["rows"], dataset["columns"])

	resp, env, err = c.sendJSON(http.MethodGet, "/dataset/explorer", nil)
	spec := step("4. Explorer spec", resp, env, err)
	fmt.Printf("%d fields\n", len(spec.Data["fields"].([]interface{})))

	apiKey := os.Getenv("OPENAI_API_KEY")
	if _, ok := page.Data["chat"]; !ok || apiKey == "" {
		color.Cyan("\nChat skipped (needs variant 5 and OPENAI_API_KEY)")
		return
	}

	resp, env, err = c.sendJSON(http.MethodPut, "/chat/config", map[string]string{"provider": "openai", "api_key": apiKey})
	step("5. Configure chat", resp, env, err)

	resp, env, err = c.sendJSON(http.MethodPost, "/chat/ask", map[string]string{
		"question": getEnv("SMOKE_QUESTION", "How many passengers survived?"),
	})
	answered := step("6. Ask", resp, env, err)
	chat := answered.Data["chat"].(map[string]interface{})
	if msg, ok := chat["error"]; ok {
		color.Red("Agent error: %v", msg)
		os.Exit(1)
	}
	fmt.Println(chat["last_answer"])
	color.Cyan("\nDone")
}
