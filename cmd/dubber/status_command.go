package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type jobRecord struct {
	ID                     json.Number `json:"id"`
	Status                 string      `json:"status"`
	Progress               int         `json:"progress"`
	Activity               string      `json:"activity"`
	EstimatedTimeRemaining string      `json:"estimatedTimeRemaining"`
	SourceObjectKey        string      `json:"sourceObjectKey"`
	OutputObjectKey        string      `json:"outputObjectKey"`
	TargetLanguage         string      `json:"targetLanguage"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a job's current state from the tracking API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			base := strings.TrimRight(cfg.StatusAPI.BaseURL, "/")
			url := fmt.Sprintf("%s/api/v1/job/%s", base, args[0])
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 15 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("query job API: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusNotFound {
				return fmt.Errorf("job %s not found", args[0])
			}
			if resp.StatusCode >= 300 {
				detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
				return fmt.Errorf("job API: http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
			}

			var record jobRecord
			if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
				return fmt.Errorf("decode job record: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:      %s\n", args[0])
			fmt.Fprintf(out, "Status:   %s\n", record.Status)
			fmt.Fprintf(out, "Progress: %d%%\n", record.Progress)
			if record.Activity != "" {
				fmt.Fprintf(out, "Activity: %s\n", record.Activity)
			}
			if record.EstimatedTimeRemaining != "" {
				fmt.Fprintf(out, "ETR:      %s\n", record.EstimatedTimeRemaining)
			}
			if record.TargetLanguage != "" {
				fmt.Fprintf(out, "Language: %s\n", record.TargetLanguage)
			}
			if record.OutputObjectKey != "" {
				fmt.Fprintf(out, "Output:   %s\n", record.OutputObjectKey)
			}
			return nil
		},
	}
}
