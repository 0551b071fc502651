package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Default server base URL; can override with DOCBOOTH_SERVER env var or --server flag.
var serverBaseURL = "http://localhost:8080"

func main() {
	cmd := flag.String("cmd", "list", "Command: upload|list|remove|view")
	fileID := flag.String("id", "", "Document id (for view)")
	index := flag.Int("index", -1, "Dashboard position (for remove)")
	serverFlag := flag.String("server", "", "Override server base URL (e.g. http://host:8080)")
	flag.Parse()
	if env := os.Getenv("DOCBOOTH_SERVER"); env != "" {
		serverBaseURL = strings.TrimRight(env, "/")
	}
	if *serverFlag != "" {
		serverBaseURL = strings.TrimRight(*serverFlag, "/")
	}

	var err error
	switch *cmd {
	case "upload":
		if flag.NArg() == 0 {
			fmt.Println("upload requires file paths as arguments")
			os.Exit(1)
		}
		err = upload(flag.Args())
	case "list":
		err = list()
	case "remove":
		if *index < 0 {
			fmt.Println("--index required")
			os.Exit(1)
		}
		err = remove(*index)
	case "view":
		if *fileID == "" {
			fmt.Println("--id required")
			os.Exit(1)
		}
		err = view(*fileID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

// upload sends one or more local files to the dashboard in a single
// multipart request.
func upload(paths []string) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		part, err := mw.CreateFormFile("files", filepath.Base(p))
		if err != nil {
			f.Close()
			return err
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := http.Post(serverBaseURL+"/files", mw.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(b))
	}
	fmt.Printf("Uploaded %d file(s)\n", len(paths))
	io.Copy(os.Stdout, resp.Body)
	fmt.Println()
	return nil
}

func list() error {
	resp, err := http.Get(serverBaseURL + "/files")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	io.Copy(os.Stdout, resp.Body)
	fmt.Println()
	return nil
}

func remove(index int) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/files/%d", serverBaseURL, index), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	fmt.Println("Removed.")
	return nil
}

// view asks the dashboard to launch a viewer window on the document. The
// window opens on the server's display; a blocked window is reported, not
// fatal.
func view(id string) error {
	resp, err := http.Post(serverBaseURL+"/files/"+id+"/view", "application/json", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	fmt.Println(string(b))
	return nil
}
