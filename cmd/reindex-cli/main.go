package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

type pageDump struct {
	DocumentID string `json:"document_id"`
	Pages      []struct {
		Number int    `json:"number"`
		Text   string `json:"text"`
	} `json:"pages"`
}

// reindex-cli re-submits extracted page dumps to a running server, for
// rebuilding indexes after a chunker or embedding model change.
func main() {
	var (
		serverURL string
		dumpDir   string
		perSecond float64
	)

	root := &cobra.Command{
		Use:   "reindex-cli",
		Short: "Re-submit page dumps for ingestion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), serverURL, dumpDir, perSecond)
		},
	}
	root.Flags().StringVar(&serverURL, "server", "http://localhost:9020", "server base URL")
	root.Flags().StringVar(&dumpDir, "dir", ".", "directory of page-dump JSON files")
	root.Flags().Float64Var(&perSecond, "rate", 2, "ingestion submissions per second")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serverURL, dumpDir string, perSecond float64) error {
	files, err := filepath.Glob(filepath.Join(dumpDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list dump files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no dump files found in %s", dumpDir)
	}

	serverURL = strings.TrimRight(serverURL, "/")
	client := &http.Client{Timeout: 30 * time.Second}
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)

	success := 0
	failed := 0
	for _, file := range files {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		dump, err := readDump(file)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", file, err)
			failed++
			continue
		}

		if err := submit(ctx, client, serverURL, dump); err != nil {
			fmt.Printf("Failed to submit %s: %v\n", dump.DocumentID, err)
			failed++
			continue
		}
		success++
		if success%50 == 0 {
			fmt.Printf("Submitted %d documents...\n", success)
		}
	}

	fmt.Printf("Reindex complete. Success: %d, Failed: %d\n", success, failed)
	return nil
}

func readDump(path string) (*pageDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dump pageDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("invalid dump file: %w", err)
	}
	if dump.DocumentID == "" {
		return nil, fmt.Errorf("missing document_id")
	}
	if len(dump.Pages) == 0 {
		return nil, fmt.Errorf("no pages")
	}
	return &dump, nil
}

func submit(ctx context.Context, client *http.Client, serverURL string, dump *pageDump) error {
	payload, err := json.Marshal(map[string]interface{}{"pages": dump.Pages})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/documents/%s/ingest", serverURL, dump.DocumentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}
