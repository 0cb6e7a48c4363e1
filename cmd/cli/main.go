package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "post":
		handlePost(args)
	case "comment":
		handleComment(args)
	case "group":
		handleGroup(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter auth <signup|login|logout|who>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "signup":
		signup(args[1:])
	case "login":
		login(args[1:])
	case "logout":
		logout()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", subCmd)
	}
}

func handlePost(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter post <create|get|update|delete>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "create":
		createPost(args[1:])
	case "get":
		getPost(args[1:])
	case "update":
		updatePost(args[1:])
	case "delete":
		deletePost(args[1:])
	default:
		fmt.Printf("unknown post command: %s\n", subCmd)
	}
}

func handleComment(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter comment <create|get|delete>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "create":
		createComment(args[1:])
	case "get":
		getComment(args[1:])
	case "delete":
		deleteComment(args[1:])
	default:
		fmt.Printf("unknown comment command: %s\n", subCmd)
	}
}

func handleGroup(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter group <create|get|list>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "create":
		createGroup(args[1:])
	case "get":
		getGroup(args[1:])
	case "list":
		listGroups(args[1:])
	default:
		fmt.Printf("unknown group command: %s\n", subCmd)
	}
}

// Auth commands
func signup(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *name == "" || *email == "" || *password == "" {
		fmt.Println("Error: name, email, and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{
		"name":     *name,
		"email":    *email,
		"password": *password,
	}

	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/user/signup", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ Account created: %s\n", *email)
	} else {
		fmt.Printf("✗ Signup failed: %v\n", result)
	}
}

func login(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/user/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["authToken"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func logout() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
}

// Post commands
func createPost(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "post title")
	text := fs.String("text", "", "post text")
	image := fs.String("image", "", "image URL (optional)")

	fs.Parse(args)

	if *title == "" || *text == "" {
		fmt.Println("Error: title and text are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{
		"title": *title,
		"activePost": map[string]string{
			"text":  *text,
			"image": *image,
		},
	}
	result, status := doJSON("POST", "/posts", payload)
	if status == 201 {
		fmt.Printf("✓ Post created: %v\n", result["id"])
	} else {
		fmt.Printf("✗ Create failed: %v\n", result)
	}
}

func getPost(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter post get <post-id>")
		return
	}
	result, status := doJSON("GET", "/posts/"+args[0], nil)
	if status == 200 {
		pretty, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(pretty))
	} else {
		fmt.Printf("✗ Get failed: %v\n", result)
	}
}

func updatePost(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "post id")
	title := fs.String("title", "", "new title (optional)")
	text := fs.String("text", "", "proposed text (optional)")
	image := fs.String("image", "", "proposed image (optional)")

	fs.Parse(args)

	if *id == "" {
		fmt.Println("Error: id is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{}
	if *title != "" {
		payload["title"] = *title
	}
	if *text != "" {
		payload["editPropose"] = map[string]string{"text": *text, "image": *image}
	}
	result, status := doJSON("PUT", "/posts/"+*id, payload)
	if status == 200 {
		fmt.Printf("✓ Post updated: %v (status %v)\n", result["id"], result["status"])
	} else {
		fmt.Printf("✗ Update failed: %v\n", result)
	}
}

func deletePost(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter post delete <post-id>")
		return
	}
	result, status := doJSON("DELETE", "/posts/"+args[0], nil)
	if status == 204 {
		fmt.Println("✓ Post deleted")
	} else {
		fmt.Printf("✗ Delete failed: %v\n", result)
	}
}

// Comment commands
func createComment(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	postID := fs.String("post", "", "parent post id")
	text := fs.String("text", "", "comment text")

	fs.Parse(args)

	if *postID == "" || *text == "" {
		fmt.Println("Error: post and text are required")
		fs.PrintDefaults()
		return
	}

	result, status := doJSON("POST", "/comments/"+*postID, map[string]string{"text": *text})
	if status == 201 {
		fmt.Printf("✓ Comment created: %v\n", result["id"])
	} else {
		fmt.Printf("✗ Create failed: %v\n", result)
	}
}

func getComment(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter comment get <comment-id>")
		return
	}
	result, status := doJSON("GET", "/comments/"+args[0], nil)
	if status == 200 {
		pretty, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(pretty))
	} else {
		fmt.Printf("✗ Get failed: %v\n", result)
	}
}

func deleteComment(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter comment delete <comment-id>")
		return
	}
	result, status := doJSON("DELETE", "/comments/"+args[0], nil)
	if status == 204 {
		fmt.Println("✓ Comment deleted")
	} else {
		fmt.Printf("✗ Delete failed: %v\n", result)
	}
}

// Group commands
func createGroup(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "group name")
	description := fs.String("description", "", "group description")

	fs.Parse(args)

	if *name == "" || *description == "" {
		fmt.Println("Error: name and description are required")
		fs.PrintDefaults()
		return
	}

	result, status := doJSON("POST", "/group/create", map[string]string{
		"name":        *name,
		"description": *description,
	})
	if status == 201 {
		fmt.Printf("✓ Group created: %v\n", result["id"])
	} else {
		fmt.Printf("✗ Create failed: %v\n", result)
	}
}

func getGroup(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: chatter group get <group-id>")
		return
	}
	result, status := doJSON("GET", "/group/"+args[0], nil)
	if status == 200 {
		pretty, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(pretty))
	} else {
		fmt.Printf("✗ Get failed: %v\n", result)
	}
}

func listGroups(args []string) {
	_ = args
	req, _ := http.NewRequest("GET", getAPIURL()+"/groups", nil)
	addAuthHeader(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var groups []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&groups)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMEMBERS")
	for _, g := range groups {
		members := 0
		if users, ok := g["users"].([]interface{}); ok {
			members = len(users)
		}
		fmt.Fprintf(w, "%v\t%v\t%d\n", g["id"], g["name"], members)
	}
	w.Flush()
}

// Helper functions
func doJSON(method, path string, payload interface{}) (map[string]interface{}, int) {
	var body *bytes.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, getAPIURL()+path, body)
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return map[string]interface{}{"error": err.Error()}, 0
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode
}

func getAPIURL() string {
	if url := os.Getenv("CHATTER_API"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.chatter/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.chatter", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`Chatter CLI

Usage:
  chatter <command> [options]

Commands:
  auth     User authentication (signup, login, logout, who)
  post     Post operations (create, get, update, delete)
  comment  Comment operations (create, get, delete)
  group    Group operations (create, get, list)
  help     Show this help message

Environment Variables:
  CHATTER_API    API endpoint (default: http://localhost:8080)

Examples:
  chatter auth signup -name user -email user@example.com -password Passw0rdd
  chatter auth login -email user@example.com -password Passw0rdd
  chatter post create -title "hello" -text "first post"
  chatter group list
`)
}
