package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dubber/internal/intake"
	"dubber/internal/job"
	"dubber/internal/language"
	"dubber/internal/storage"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var targetLanguage string
	var objectKey string

	cmd := &cobra.Command{
		Use:   "submit <video-file>",
		Short: "Upload a video and enqueue a dubbing job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			videoPath := args[0]
			if _, err := os.Stat(videoPath); err != nil {
				return fmt.Errorf("video file: %w", err)
			}
			if err := job.ValidateLanguage(targetLanguage); err != nil {
				return err
			}

			jobID := uuid.NewString()
			key := strings.TrimSpace(objectKey)
			if key == "" {
				key = jobID + "_" + filepath.Base(videoPath)
			}

			store, err := storage.NewMinioStore(cfg.Storage)
			if err != nil {
				return err
			}
			if err := store.EnsureBucket(cmd.Context()); err != nil {
				return err
			}
			if err := store.Store(cmd.Context(), key, videoPath); err != nil {
				return fmt.Errorf("upload video: %w", err)
			}

			desc := job.Descriptor{
				ID:              jobID,
				SourceObjectKey: key,
				TargetLanguage:  targetLanguage,
			}
			if err := intake.Publish(cmd.Context(), cfg.Queue, desc); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s as %s\n", filepath.Base(videoPath), key)
			fmt.Fprintf(out, "Job %s queued for dubbing into %s\n", jobID, language.DisplayName(targetLanguage))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLanguage, "language", "l", "", "Target language code (BCP 47)")
	cmd.Flags().StringVar(&objectKey, "key", "", "Object key for the uploaded source (defaults to <jobId>_<filename>)")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}
