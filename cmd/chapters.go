package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/internal/chapters"
)

var (
	chaptersPlaylist     string
	chaptersOut          string
	chaptersQuestionsOut string
	chaptersConcurrency  int
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "Build catalog files from playlist chapters",
}

var chaptersExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Parse chapter markers from every video in a playlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("chapters"); err != nil {
			return err
		}
		if chaptersPlaylist == "" {
			return eris.New("--playlist is required")
		}

		out := chaptersOut
		if out == "" {
			out = cfg.Catalog.ChaptersFile
		}

		ext := chapters.NewExtractor(newYouTube(cfg), chapters.WithConcurrency(chaptersConcurrency))
		records, err := ext.Build(ctx, chaptersPlaylist)
		if err != nil {
			return err
		}
		if err := chapters.WriteJSON(out, records); err != nil {
			return err
		}
		zap.L().Info("chapters: written", zap.String("path", out), zap.Int("chapters", len(records)))

		if chaptersQuestionsOut != "" {
			questions := chapters.QuestionsFromChapters(records)
			if err := chapters.WriteJSON(chaptersQuestionsOut, questions); err != nil {
				return err
			}
			zap.L().Info("chapters: questions written", zap.String("path", chaptersQuestionsOut), zap.Int("questions", len(questions)))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d chapters to %s\n", len(records), out)
		return nil
	},
}

func init() {
	chaptersExtractCmd.Flags().StringVar(&chaptersPlaylist, "playlist", "", "playlist ID to scan")
	chaptersExtractCmd.Flags().StringVar(&chaptersOut, "out", "", "chapters output file (default catalog.chapters_file)")
	chaptersExtractCmd.Flags().StringVar(&chaptersQuestionsOut, "questions-out", "", "also write a question catalog to this file")
	chaptersExtractCmd.Flags().IntVar(&chaptersConcurrency, "concurrency", 4, "concurrent video detail requests")
	chaptersCmd.AddCommand(chaptersExtractCmd)
	rootCmd.AddCommand(chaptersCmd)
}
